package recipe

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
	"github.com/heartmarshall/forkful-backend/internal/service/imaging"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type mockValidator struct {
	verdict domain.ValidationVerdict
	terms   [][]string
}

func (m *mockValidator) ValidateUserInput(_ context.Context, terms, _ []string) domain.ValidationVerdict {
	m.terms = append(m.terms, terms)
	return m.verdict
}

type mockCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (m *mockCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	m.prompts = append(m.prompts, req.Prompt)
	return m.reply, m.err
}

type enqueued struct {
	kind domain.TaskKind
	key  string
}

type mockDispatcher struct {
	mu    sync.Mutex
	tasks []enqueued
	err   error
}

func (m *mockDispatcher) Enqueue(_ context.Context, kind domain.TaskKind, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, enqueued{kind, key})
	return m.err
}

type mockImager struct {
	result imaging.Result
	err    error
	calls  int
}

func (m *mockImager) GenerateForRecipe(context.Context, *domain.Recipe) (imaging.Result, error) {
	m.calls++
	return m.result, m.err
}

type mockNotifier struct {
	sent []*domain.Recipe
	err  error
}

func (m *mockNotifier) NotifyRecipeSubmitted(_ context.Context, r *domain.Recipe) error {
	m.sent = append(m.sent, r)
	return m.err
}

type fixture struct {
	repo      *recipeRepoMock
	validator *mockValidator
	model     *mockCompleter
	scorer    *mockCompleter
	tasks     *mockDispatcher
	images    *mockImager
	notify    *mockNotifier
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo: &recipeRepoMock{
			CreateFunc: func(_ context.Context, r *domain.Recipe) (*domain.Recipe, error) {
				out := *r
				out.ID = uuid.New()
				return &out, nil
			},
		},
		validator: &mockValidator{verdict: domain.ValidationVerdict{Valid: true}},
		model:     &mockCompleter{reply: generatedReply},
		scorer:    &mockCompleter{reply: `{"score": 8, "reasoning": "clear"}`},
		tasks:     &mockDispatcher{},
		images:    &mockImager{},
		notify:    &mockNotifier{},
	}
	cfg := config.ModerationConfig{QualityThreshold: 7, NeutralScore: 5}
	rubric := moderation.NewRecipeRubric(slog.Default(), f.scorer, cfg)
	f.svc = NewService(slog.Default(), f.repo, f.validator, f.model, f.tasks, f.images, f.notify, rubric)
	return f
}

const generatedReply = `Here you go:
{"title": "Garlic Chicken & Rice", "description": "One-pan weeknight dinner.",
 "ingredients": ["2 chicken thighs", "200g rice", "3 garlic cloves"],
 "method": ["Brown the chicken.", "Add rice and water.", "Simmer 20 minutes."],
 "servings": 2, "prep_minutes": 10, "cook_minutes": 25.4,
 "nutrition": {"calories": 6200, "protein": 41.26, "carbs": -3, "fat": 900}}`

// ---------------------------------------------------------------------------
// Generate
// ---------------------------------------------------------------------------

func TestGenerate_IngredientsEndToEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.svc.Generate(context.Background(), GenerateInput{
		Ingredients: []string{"chicken", "rice"},
		Essentials:  []string{"garlic"},
	})
	require.NoError(t, err)

	r := res.Recipe
	assert.Equal(t, domain.LabelIngredients, res.Label)
	assert.NotEmpty(t, r.Ingredients)
	assert.NotEmpty(t, r.Method)
	assert.Equal(t, "garlic-chicken-rice", r.Slug)
	assert.Equal(t, domain.SourceAI, r.Source)
	assert.Equal(t, domain.StatusPending, r.Status)
	assert.Equal(t, 25, r.CookMinutes)

	n := r.Nutrition
	assert.Equal(t, float64(domain.MaxCalories), n.Calories)
	assert.InDelta(t, 41.3, n.Protein, 1e-9)
	assert.Equal(t, 0.0, n.Carbs)
	assert.Equal(t, float64(domain.MaxMacro), n.Fat)
	for _, v := range []float64{n.Protein, n.Carbs, n.Fat} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, float64(domain.MaxMacro))
	}

	assert.Equal(t, []enqueued{
		{domain.TaskGenerateRecipeImage, r.Slug},
		{domain.TaskScoreRecipe, r.Slug},
	}, f.tasks.tasks)
	require.Len(t, f.model.prompts, 1)
	assert.Contains(t, f.model.prompts[0], "- chicken")
	assert.Contains(t, f.model.prompts[0], "must include: garlic")
}

func TestGenerate_DishQueryRouting(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.svc.Generate(context.Background(), GenerateInput{Query: "spaghetti alla vongole"})
	require.NoError(t, err)

	assert.Equal(t, domain.LabelDish, res.Label)
	assert.Equal(t, [][]string{{"spaghetti alla vongole"}}, f.validator.terms)
	assert.Contains(t, f.model.prompts[0], "Write a recipe for: spaghetti alla vongole")
}

func TestGenerate_IngredientQueryIsSplit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.svc.Generate(context.Background(), GenerateInput{Query: "Chicken, Rice, garlic"})
	require.NoError(t, err)

	assert.Equal(t, domain.LabelIngredients, res.Label)
	assert.Equal(t, [][]string{{"chicken", "rice", "garlic"}}, f.validator.terms)
}

func TestGenerate_InvalidInputStopsBeforeModel(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.validator.verdict = domain.ValidationVerdict{Valid: false, Reason: "not food"}

	_, err := f.svc.Generate(context.Background(), GenerateInput{Ingredients: []string{"gravel", "bolts"}})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "not food")

	assert.Empty(t, f.model.prompts)
	assert.Empty(t, f.repo.CreateCalls())
	assert.Empty(t, f.tasks.tasks)
}

func TestGenerate_InputValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), GenerateInput{Query: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Generate(context.Background(), GenerateInput{Query: strings.Repeat("a", 201)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, f.validator.terms)
}

func TestGenerate_ModelFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "call error", err: errors.New("overloaded")},
		{name: "no json", reply: "I cannot help with that."},
		{name: "no method", reply: `{"title": "Toast", "ingredients": ["bread"], "method": []}`},
		{name: "no title", reply: `{"title": " ", "ingredients": ["bread"], "method": ["toast"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.model.reply, f.model.err = tt.reply, tt.err

			_, err := f.svc.Generate(context.Background(), GenerateInput{Ingredients: []string{"bread"}})
			require.ErrorIs(t, err, domain.ErrUpstream)
			assert.Empty(t, f.repo.CreateCalls())
		})
	}
}

func TestGenerate_SlugCollisionGetsSuffix(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.repo.SlugExistsFunc = func(_ context.Context, slug string) (bool, error) {
		return slug == "garlic-chicken-rice", nil
	}

	res, err := f.svc.Generate(context.Background(), GenerateInput{Ingredients: []string{"chicken"}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Recipe.Slug, "garlic-chicken-rice-"))
	assert.Len(t, res.Recipe.Slug, len("garlic-chicken-rice-")+6)
	assert.Len(t, f.repo.SlugExistsCalls(), 2)
}

func TestGenerate_EnqueueFailureDoesNotFailSave(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.tasks.err = errors.New("queue down")

	res, err := f.svc.Generate(context.Background(), GenerateInput{Ingredients: []string{"chicken"}})
	require.NoError(t, err)
	assert.NotNil(t, res.Recipe)
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func validSubmission() SubmitInput {
	return SubmitInput{
		Title:       "Nonna's Lasagne",
		Ingredients: []string{"12 lasagne sheets", "500g ragu", " "},
		Method:      []string{"Layer.", "Bake."},
		Servings:    6,
		Nutrition:   domain.Nutrition{Calories: 720.04},
	}
}

func TestSubmit_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	r, err := f.svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, "nonna-s-lasagne", r.Slug)
	assert.Equal(t, domain.SourceCommunity, r.Source)
	assert.Equal(t, domain.StatusPending, r.Status)
	assert.Equal(t, []string{"12 lasagne sheets", "500g ragu"}, r.Ingredients)
	assert.Equal(t, 720.0, r.Nutrition.Calories)
	assert.Equal(t, []enqueued{{domain.TaskScoreRecipe, r.Slug}}, f.tasks.tasks)
	assert.Len(t, f.notify.sent, 1)
}

func TestSubmit_NotificationFailureIsIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.notify.err = errors.New("smtp down")

	_, err := f.svc.Submit(context.Background(), validSubmission())
	assert.NoError(t, err)
}

func TestSubmit_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*SubmitInput)
		field  string
	}{
		{"empty title", func(i *SubmitInput) { i.Title = "" }, "title"},
		{"symbol title", func(i *SubmitInput) { i.Title = "!!!" }, "title"},
		{"no ingredients", func(i *SubmitInput) { i.Ingredients = []string{" "} }, "ingredients"},
		{"no method", func(i *SubmitInput) { i.Method = nil }, "method"},
		{"servings", func(i *SubmitInput) { i.Servings = 51 }, "servings"},
		{"prep", func(i *SubmitInput) { i.PrepMinutes = -1 }, "prep_minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := validSubmission()
			tt.mutate(&in)
			err := in.Validate()

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestSubmit_RejectedByValidator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.validator.verdict = domain.ValidationVerdict{Valid: false, Reason: "not food"}

	_, err := f.svc.Submit(context.Background(), validSubmission())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.repo.CreateCalls())
	assert.Empty(t, f.notify.sent)
}

// ---------------------------------------------------------------------------
// Score / SetStatus / List / GenerateImage
// ---------------------------------------------------------------------------

func TestScore_FeaturesAndPersists(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.repo.GetBySlugFunc = func(_ context.Context, slug string) (*domain.Recipe, error) {
		return &domain.Recipe{Slug: slug, Title: "Pho", Status: domain.StatusPending}, nil
	}

	r, out, err := f.svc.Score(context.Background(), "pho")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFeatured, out.Status)
	assert.Equal(t, domain.StatusFeatured, r.Status)
	require.NotNil(t, r.QualityScore)
	assert.Equal(t, 8.0, *r.QualityScore)

	calls := f.repo.ApplyScoreCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "pho", calls[0].Slug)
	assert.Equal(t, 8.0, calls[0].Score)
}

func TestScore_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.repo.GetBySlugFunc = func(context.Context, string) (*domain.Recipe, error) {
		return nil, domain.ErrNotFound
	}

	_, _, err := f.svc.Score(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.scorer.prompts)
}

func TestHandleScoreTask_PropagatesErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.repo.GetBySlugFunc = func(context.Context, string) (*domain.Recipe, error) {
		return &domain.Recipe{Slug: "x", Status: domain.StatusPending}, nil
	}
	f.repo.ApplyScoreFunc = func(context.Context, string, float64, domain.ContentStatus) error {
		return errors.New("db down")
	}

	assert.Error(t, f.svc.HandleScoreTask(context.Background(), "x"))
}

func TestSetStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	require.NoError(t, f.svc.SetStatus(context.Background(), "pho", domain.StatusRejected))
	assert.ErrorIs(t, f.svc.SetStatus(context.Background(), "pho", domain.StatusApproved), domain.ErrValidation)
	assert.ErrorIs(t, f.svc.SetStatus(context.Background(), "", domain.StatusFeatured), domain.ErrValidation)
	assert.Len(t, f.repo.SetStatusCalls(), 1)
}

func TestList_BoundsLimit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.repo.ListFunc = func(context.Context, domain.ListFilter) ([]*domain.Recipe, error) { return nil, nil }

	_, err := f.svc.List(context.Background(), domain.ListFilter{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	_, err = f.svc.List(context.Background(), domain.ListFilter{})
	require.NoError(t, err)

	calls := f.repo.ListCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, MaxLimit, calls[0].Filter.Limit)
	assert.Equal(t, 0, calls[0].Filter.Offset)
	assert.Equal(t, DefaultLimit, calls[1].Filter.Limit)

	flagged := domain.StatusFlagged
	_, err = f.svc.List(context.Background(), domain.ListFilter{Status: &flagged})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.repo.GetBySlugFunc = func(_ context.Context, slug string) (*domain.Recipe, error) {
		return &domain.Recipe{Slug: slug}, nil
	}
	f.images.result = imaging.Result{URL: "/media/recipes/pho.png", Score: 8, Attempts: 1}

	res, err := f.svc.GenerateImage(context.Background(), "pho")
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/pho.png", res.URL)

	f.images.err = imaging.ErrNoImage
	assert.ErrorIs(t, f.svc.HandleImageTask(context.Background(), "pho"), imaging.ErrNoImage)
}
