package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
)

func testModerationConfig() config.ModerationConfig {
	return config.ModerationConfig{
		QualityThreshold:       7.0,
		PhotoApprovalThreshold: 6.0,
		AuthenticityConfidence: 80,
		NeutralScore:           5.0,
		PhotoPromoteThreshold:  7.0,
		MaxImageAttempts:       3,
		ImageAcceptThreshold:   7.0,
	}
}

func replyMock(text string, err error) *completerMock {
	return &completerMock{
		CompleteFunc: func(context.Context, llm.Request) (string, error) { return text, err },
	}
}

func testRecipe(status domain.ContentStatus) *domain.Recipe {
	return &domain.Recipe{
		ID:          uuid.New(),
		Slug:        "chicken-rice",
		Title:       "Chicken Rice",
		Ingredients: []string{"2 chicken thighs", "200g rice"},
		Method:      []string{"Cook rice.", "Fry chicken."},
		Servings:    2,
		Status:      status,
	}
}

func runRecipe(t *testing.T, reply string, status domain.ContentStatus) (Outcome, *sinkMock[*domain.Recipe]) {
	t.Helper()
	sink := &sinkMock[*domain.Recipe]{}
	rubric := NewRecipeRubric(slog.Default(), replyMock(reply, nil), testModerationConfig())
	p := NewPipeline[*domain.Recipe](slog.Default(), domain.KindRecipe, rubric, sink)

	out, err := p.Run(context.Background(), testRecipe(status))
	require.NoError(t, err)
	return out, sink
}

// ---------------------------------------------------------------------------
// Text pipeline
// ---------------------------------------------------------------------------

func TestPipeline_RecipeThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		raw        string
		wantScore  float64
		wantStatus domain.ContentStatus
	}{
		{name: "at threshold", raw: "7.0", wantScore: 7.0, wantStatus: domain.StatusFeatured},
		{name: "just below", raw: "6.9", wantScore: 6.9, wantStatus: domain.StatusPending},
		{name: "above range clamps", raw: "12.4", wantScore: 10.0, wantStatus: domain.StatusFeatured},
		{name: "below range clamps", raw: "-3", wantScore: 0.0, wantStatus: domain.StatusPending},
		{name: "rounding to one decimal", raw: "6.96", wantScore: 7.0, wantStatus: domain.StatusFeatured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, sink := runRecipe(t, fmt.Sprintf(`{"score": %s, "reasoning": "ok"}`, tt.raw), domain.StatusPending)

			assert.Equal(t, tt.wantScore, out.Score())
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, domain.StatusPending, out.Previous)

			calls := sink.ApplyCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantScore, calls[0].Out.Score())
			assert.Equal(t, tt.wantStatus, calls[0].Out.Status)
		})
	}
}

func TestPipeline_NonPendingKeepsStatus(t *testing.T) {
	t.Parallel()

	out, sink := runRecipe(t, `{"score": 2}`, domain.StatusFeatured)
	assert.Equal(t, domain.StatusFeatured, out.Status)
	assert.False(t, out.Changed())
	assert.Equal(t, 2.0, out.Score())
	require.Len(t, sink.ApplyCalls(), 1)

	out, _ = runRecipe(t, `{"score": 9}`, domain.StatusRejected)
	assert.Equal(t, domain.StatusRejected, out.Status)
}

func TestTextRubric_FailNeutral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "model error", err: errors.New("503")},
		{name: "prose", reply: "This recipe looks great!"},
		{name: "missing score", reply: `{"reasoning": "fine"}`},
		{name: "string score", reply: `{"score": "eight"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sink := &sinkMock[*domain.Recipe]{}
			rubric := NewRecipeRubric(slog.Default(), replyMock(tt.reply, tt.err), testModerationConfig())
			p := NewPipeline[*domain.Recipe](slog.Default(), domain.KindRecipe, rubric, sink)

			out, err := p.Run(context.Background(), testRecipe(domain.StatusPending))
			require.NoError(t, err)
			assert.Equal(t, 5.0, out.Score())
			assert.Equal(t, ReasonUnparsable, out.Assessment.Reasoning)
			assert.Equal(t, domain.StatusPending, out.Status)
			assert.Len(t, sink.ApplyCalls(), 1)
		})
	}
}

func TestTextRubric_PromptContent(t *testing.T) {
	t.Parallel()

	m := replyMock(`{"score": 8}`, nil)
	rubric := NewGuideRubric(slog.Default(), m, testModerationConfig())
	g := &domain.Guide{
		Topic: "searing", Title: "How to sear", Status: domain.StatusPending,
		Steps: []string{"Dry the meat.", "Heat the pan."}, Tips: []string{"Do not crowd the pan."},
	}

	a, err := rubric.Assess(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, 8.0, a.Score)
	assert.Equal(t, domain.StatusFeatured, rubric.Decide(a))

	calls := m.CompleteCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, guideRubric, calls[0].Req.System)
	assert.Contains(t, calls[0].Req.Prompt, "2. Heat the pan.")
	assert.Contains(t, calls[0].Req.Prompt, "Do not crowd the pan.")
}

func TestPipeline_SinkError(t *testing.T) {
	t.Parallel()

	sink := &sinkMock[*domain.Recipe]{
		ApplyFunc: func(context.Context, *domain.Recipe, Outcome) error { return domain.ErrNotFound },
	}
	rubric := NewRecipeRubric(slog.Default(), replyMock(`{"score": 8}`, nil), testModerationConfig())
	p := NewPipeline[*domain.Recipe](slog.Default(), domain.KindRecipe, rubric, sink)

	_, err := p.Run(context.Background(), testRecipe(domain.StatusPending))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Photo pipeline
// ---------------------------------------------------------------------------

// photoModel answers quality and authenticity prompts separately.
func photoModel(quality, authenticity string, qualityErr error) *completerMock {
	return &completerMock{
		CompleteFunc: func(_ context.Context, req llm.Request) (string, error) {
			if strings.HasPrefix(req.System, "You detect") {
				return authenticity, nil
			}
			return quality, qualityErr
		},
	}
}

func testSubject() PhotoSubject {
	return PhotoSubject{
		Photo:     &domain.Photo{ID: uuid.New(), RecipeSlug: "chicken-rice", Status: domain.StatusPending},
		Data:      []byte("not-a-real-image"),
		MediaType: "image/jpeg",
		Format:    "jpeg",
	}
}

func TestPhotoPipeline_Decisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		quality      string
		authenticity string
		want         domain.ContentStatus
	}{
		{
			name:         "likely ai overrides quality",
			quality:      `{"score": 9.5, "is_food": true}`,
			authenticity: `{"classification": "likely_ai", "confidence": 85}`,
			want:         domain.StatusFlagged,
		},
		{
			name:         "likely ai at threshold is not flagged",
			quality:      `{"score": 8, "is_food": true}`,
			authenticity: `{"classification": "likely_ai", "confidence": 80}`,
			want:         domain.StatusApproved,
		},
		{
			name:         "likely ai just above threshold is flagged",
			quality:      `{"score": 8, "is_food": true}`,
			authenticity: `{"classification": "likely_ai", "confidence": 80.4}`,
			want:         domain.StatusFlagged,
		},
		{
			name:         "real food photo approved",
			quality:      `{"score": 6.0, "is_food": true}`,
			authenticity: `{"classification": "real", "confidence": 90}`,
			want:         domain.StatusApproved,
		},
		{
			name:         "low score rejected",
			quality:      `{"score": 5.9, "is_food": true}`,
			authenticity: `{"classification": "real", "confidence": 90}`,
			want:         domain.StatusRejected,
		},
		{
			name:         "not food rejected",
			quality:      `{"score": 9, "is_food": false}`,
			authenticity: `{"classification": "real", "confidence": 99}`,
			want:         domain.StatusRejected,
		},
		{
			name:         "stock is not flagged",
			quality:      `{"score": 7, "is_food": true}`,
			authenticity: `{"classification": "stock", "confidence": 99}`,
			want:         domain.StatusApproved,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sink := &sinkMock[PhotoSubject]{}
			m := photoModel(tt.quality, tt.authenticity, nil)
			p := NewPipeline[PhotoSubject](slog.Default(), domain.KindPhoto, NewPhotoStrategy(slog.Default(), m, testModerationConfig()), sink)

			out, err := p.Run(context.Background(), testSubject())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Status)
			assert.Len(t, m.CompleteCalls(), 2)
			for _, c := range m.CompleteCalls() {
				require.Len(t, c.Req.Images, 1)
			}
			require.Len(t, sink.ApplyCalls(), 1)
		})
	}
}

func TestPhotoPipeline_FailExplicit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		quality      string
		authenticity string
		qualityErr   error
	}{
		{name: "quality call error", authenticity: `{"classification": "real", "confidence": 90}`, qualityErr: errors.New("timeout")},
		{name: "quality unparsable", quality: "looks tasty", authenticity: `{"classification": "real", "confidence": 90}`},
		{name: "quality without score", quality: `{"is_food": true}`, authenticity: `{"classification": "real", "confidence": 90}`},
		{name: "unknown classification", quality: `{"score": 8, "is_food": true}`, authenticity: `{"classification": "painting", "confidence": 90}`},
		{name: "authenticity unparsable", quality: `{"score": 8, "is_food": true}`, authenticity: "no idea"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sink := &sinkMock[PhotoSubject]{}
			m := photoModel(tt.quality, tt.authenticity, tt.qualityErr)
			p := NewPipeline[PhotoSubject](slog.Default(), domain.KindPhoto, NewPhotoStrategy(slog.Default(), m, testModerationConfig()), sink)

			_, err := p.Run(context.Background(), testSubject())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUpstream)
			assert.Empty(t, sink.ApplyCalls())
		})
	}
}

func TestPhotoStrategy_ClampsConfidence(t *testing.T) {
	t.Parallel()

	m := photoModel(`{"score": 4, "is_food": true}`, `{"classification": "LIKELY_AI", "confidence": 140}`, nil)
	a, err := NewPhotoStrategy(slog.Default(), m, testModerationConfig()).Assess(context.Background(), testSubject())
	require.NoError(t, err)
	assert.Equal(t, domain.AuthenticityLikelyAI, a.Authenticity)
	assert.Equal(t, 100, a.AuthenticityConfidence)
}

func TestClampConfidence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, clampConfidence(-5))
	assert.Equal(t, 85, clampConfidence(85))
	assert.Equal(t, 86, clampConfidence(85.6))
	assert.Equal(t, 81, clampConfidence(80.4))
	assert.Equal(t, 100, clampConfidence(300))
}
