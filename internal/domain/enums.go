package domain

// ContentStatus is the moderation lifecycle state of a content item.
type ContentStatus string

const (
	StatusPending  ContentStatus = "pending"
	StatusFeatured ContentStatus = "featured"
	StatusApproved ContentStatus = "approved"
	StatusRejected ContentStatus = "rejected"
	StatusFlagged  ContentStatus = "flagged"
)

func (s ContentStatus) String() string { return string(s) }

func (s ContentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusFeatured, StatusApproved, StatusRejected, StatusFlagged:
		return true
	}
	return false
}

// ValidFor reports whether the status applies to the given content kind.
// Recipes and guides use pending|featured|rejected, photos use
// pending|approved|rejected|flagged.
func (s ContentStatus) ValidFor(kind ContentKind) bool {
	switch kind {
	case KindRecipe, KindGuide:
		return s == StatusPending || s == StatusFeatured || s == StatusRejected
	case KindPhoto:
		return s == StatusPending || s == StatusApproved || s == StatusRejected || s == StatusFlagged
	}
	return false
}

// ContentKind identifies a moderated content type.
type ContentKind string

const (
	KindRecipe ContentKind = "recipe"
	KindPhoto  ContentKind = "photo"
	KindGuide  ContentKind = "guide"
)

func (k ContentKind) String() string { return string(k) }

func (k ContentKind) IsValid() bool {
	switch k {
	case KindRecipe, KindPhoto, KindGuide:
		return true
	}
	return false
}

// ClassificationLabel is the routing label of a free-text search query.
type ClassificationLabel string

const (
	LabelDish        ClassificationLabel = "dish"
	LabelIngredients ClassificationLabel = "ingredients"
)

func (l ClassificationLabel) String() string { return string(l) }

// Authenticity is the provenance class of an uploaded photo.
type Authenticity string

const (
	AuthenticityReal     Authenticity = "real"
	AuthenticityLikelyAI Authenticity = "likely_ai"
	AuthenticityStock    Authenticity = "stock"
)

func (a Authenticity) IsValid() bool {
	switch a {
	case AuthenticityReal, AuthenticityLikelyAI, AuthenticityStock:
		return true
	}
	return false
}

// RecipeSource records where a recipe came from.
type RecipeSource string

const (
	SourceAI        RecipeSource = "ai"
	SourceCommunity RecipeSource = "community"
	SourceCurated   RecipeSource = "curated"
)

func (s RecipeSource) IsValid() bool {
	switch s {
	case SourceAI, SourceCommunity, SourceCurated:
		return true
	}
	return false
}
