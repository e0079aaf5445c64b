package importer

// CuratedRecipe is the on-disk shape of an editor-curated recipe. Files
// hold a JSON array of these.
type CuratedRecipe struct {
	Slug        string   `json:"slug,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Method      []string `json:"method"`
	Servings    int      `json:"servings"`
	PrepMinutes int      `json:"prep_minutes"`
	CookMinutes int      `json:"cook_minutes"`
	Nutrition   struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	} `json:"nutrition"`
	ImageURL string `json:"image_url,omitempty"`
}
