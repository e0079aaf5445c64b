package rest

import (
	"time"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

type nutritionDTO struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type recipeDTO struct {
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Ingredients  []string     `json:"ingredients"`
	Method       []string     `json:"method"`
	Servings     int          `json:"servings"`
	PrepMinutes  int          `json:"prepMinutes"`
	CookMinutes  int          `json:"cookMinutes"`
	Nutrition    nutritionDTO `json:"nutrition"`
	ImageURL     *string      `json:"imageUrl"`
	ImageIsAI    bool         `json:"imageIsAi"`
	Source       string       `json:"source"`
	Status       string       `json:"status"`
	QualityScore *float64     `json:"qualityScore"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func toRecipeDTO(r *domain.Recipe) recipeDTO {
	return recipeDTO{
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: nonNil(r.Ingredients),
		Method:      nonNil(r.Method),
		Servings:    r.Servings,
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		Nutrition: nutritionDTO{
			Calories: r.Nutrition.Calories,
			Protein:  r.Nutrition.Protein,
			Carbs:    r.Nutrition.Carbs,
			Fat:      r.Nutrition.Fat,
		},
		ImageURL:     r.ImageURL,
		ImageIsAI:    r.ImageIsAI,
		Source:       string(r.Source),
		Status:       r.Status.String(),
		QualityScore: r.QualityScore,
		CreatedAt:    r.CreatedAt,
	}
}

type photoDTO struct {
	ID                     string    `json:"id"`
	RecipeSlug             string    `json:"recipeSlug"`
	URL                    string    `json:"url"`
	Submitter              string    `json:"submitter,omitempty"`
	Status                 string    `json:"status"`
	QualityScore           *float64  `json:"qualityScore"`
	Authenticity           *string   `json:"authenticity"`
	AuthenticityConfidence *int      `json:"authenticityConfidence"`
	Reasoning              *string   `json:"reasoning,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
}

func toPhotoDTO(p *domain.Photo) photoDTO {
	dto := photoDTO{
		ID:                     p.ID.String(),
		RecipeSlug:             p.RecipeSlug,
		URL:                    p.URL,
		Submitter:              p.Submitter,
		Status:                 p.Status.String(),
		QualityScore:           p.QualityScore,
		AuthenticityConfidence: p.AuthenticityConfidence,
		Reasoning:              p.Reasoning,
		CreatedAt:              p.CreatedAt,
	}
	if p.Authenticity != nil {
		a := string(*p.Authenticity)
		dto.Authenticity = &a
	}
	return dto
}

type guideDTO struct {
	Slug         string    `json:"slug"`
	Topic        string    `json:"topic"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Steps        []string  `json:"steps"`
	Tips         []string  `json:"tips"`
	Status       string    `json:"status"`
	QualityScore *float64  `json:"qualityScore"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toGuideDTO(g *domain.Guide) guideDTO {
	return guideDTO{
		Slug:         g.Slug,
		Topic:        g.Topic,
		Title:        g.Title,
		Summary:      g.Summary,
		Steps:        nonNil(g.Steps),
		Tips:         nonNil(g.Tips),
		Status:       g.Status.String(),
		QualityScore: g.QualityScore,
		CreatedAt:    g.CreatedAt,
	}
}

type commentDTO struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCommentDTO(c *domain.Comment) commentDTO {
	return commentDTO{
		ID:        c.ID.String(),
		Author:    c.Author,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// scoreResponse is the body of every synchronous scoring endpoint.
type scoreResponse struct {
	Success   bool    `json:"success"`
	Score     float64 `json:"score"`
	Status    string  `json:"status"`
	Changed   bool    `json:"changed"`
	Reasoning string  `json:"reasoning,omitempty"`
}

func toScoreResponse(out moderation.Outcome) scoreResponse {
	return scoreResponse{
		Success:   true,
		Score:     out.Score(),
		Status:    out.Status.String(),
		Changed:   out.Changed(),
		Reasoning: out.Assessment.Reasoning,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
