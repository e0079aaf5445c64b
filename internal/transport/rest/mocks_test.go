package rest

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/auth"
	"github.com/heartmarshall/forkful-backend/internal/service/comment"
	"github.com/heartmarshall/forkful-backend/internal/service/imaging"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
	"github.com/heartmarshall/forkful-backend/internal/service/photo"
	"github.com/heartmarshall/forkful-backend/internal/service/recipe"
)

type validatorMock struct {
	ValidateUserInputFunc func(ctx context.Context, terms, essentials []string) domain.ValidationVerdict
}

func (m *validatorMock) ValidateUserInput(ctx context.Context, terms, essentials []string) domain.ValidationVerdict {
	return m.ValidateUserInputFunc(ctx, terms, essentials)
}

type recipeServiceMock struct {
	GenerateFunc      func(ctx context.Context, input recipe.GenerateInput) (*recipe.GenerateResult, error)
	SubmitFunc        func(ctx context.Context, input recipe.SubmitInput) (*domain.Recipe, error)
	GetFunc           func(ctx context.Context, slug string) (*domain.Recipe, error)
	ListFunc          func(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error)
	ScoreFunc         func(ctx context.Context, slug string) (*domain.Recipe, moderation.Outcome, error)
	SetStatusFunc     func(ctx context.Context, slug string, status domain.ContentStatus) error
	GenerateImageFunc func(ctx context.Context, slug string) (imaging.Result, error)
}

func (m *recipeServiceMock) Generate(ctx context.Context, input recipe.GenerateInput) (*recipe.GenerateResult, error) {
	return m.GenerateFunc(ctx, input)
}

func (m *recipeServiceMock) Submit(ctx context.Context, input recipe.SubmitInput) (*domain.Recipe, error) {
	return m.SubmitFunc(ctx, input)
}

func (m *recipeServiceMock) Get(ctx context.Context, slug string) (*domain.Recipe, error) {
	return m.GetFunc(ctx, slug)
}

func (m *recipeServiceMock) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error) {
	return m.ListFunc(ctx, filter)
}

func (m *recipeServiceMock) Score(ctx context.Context, slug string) (*domain.Recipe, moderation.Outcome, error) {
	return m.ScoreFunc(ctx, slug)
}

func (m *recipeServiceMock) SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error {
	return m.SetStatusFunc(ctx, slug, status)
}

func (m *recipeServiceMock) GenerateImage(ctx context.Context, slug string) (imaging.Result, error) {
	return m.GenerateImageFunc(ctx, slug)
}

type commentServiceMock struct {
	CreateFunc func(ctx context.Context, input comment.CreateInput) (*domain.Comment, error)
	ListFunc   func(ctx context.Context, recipeSlug string, limit, offset int) ([]*domain.Comment, error)
}

func (m *commentServiceMock) Create(ctx context.Context, input comment.CreateInput) (*domain.Comment, error) {
	return m.CreateFunc(ctx, input)
}

func (m *commentServiceMock) List(ctx context.Context, recipeSlug string, limit, offset int) ([]*domain.Comment, error) {
	return m.ListFunc(ctx, recipeSlug, limit, offset)
}

type photoServiceMock struct {
	UploadFunc       func(ctx context.Context, input photo.UploadInput) (*photo.UploadResult, error)
	GetFunc          func(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	ScoreFunc        func(ctx context.Context, id uuid.UUID) (*domain.Photo, moderation.Outcome, error)
	ListByStatusFunc func(ctx context.Context, filter domain.ListFilter) ([]*domain.Photo, error)
	SetStatusFunc    func(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error
}

func (m *photoServiceMock) Upload(ctx context.Context, input photo.UploadInput) (*photo.UploadResult, error) {
	return m.UploadFunc(ctx, input)
}

func (m *photoServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	return m.GetFunc(ctx, id)
}

func (m *photoServiceMock) Score(ctx context.Context, id uuid.UUID) (*domain.Photo, moderation.Outcome, error) {
	return m.ScoreFunc(ctx, id)
}

func (m *photoServiceMock) ListByStatus(ctx context.Context, filter domain.ListFilter) ([]*domain.Photo, error) {
	return m.ListByStatusFunc(ctx, filter)
}

func (m *photoServiceMock) SetStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error {
	return m.SetStatusFunc(ctx, id, status)
}

type guideServiceMock struct {
	GenerateFunc  func(ctx context.Context, topic string) (*domain.Guide, error)
	GetFunc       func(ctx context.Context, slug string) (*domain.Guide, error)
	ListFunc      func(ctx context.Context, filter domain.ListFilter) ([]*domain.Guide, error)
	ScoreFunc     func(ctx context.Context, slug string) (*domain.Guide, moderation.Outcome, error)
	SetStatusFunc func(ctx context.Context, slug string, status domain.ContentStatus) error
}

func (m *guideServiceMock) Generate(ctx context.Context, topic string) (*domain.Guide, error) {
	return m.GenerateFunc(ctx, topic)
}

func (m *guideServiceMock) Get(ctx context.Context, slug string) (*domain.Guide, error) {
	return m.GetFunc(ctx, slug)
}

func (m *guideServiceMock) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Guide, error) {
	return m.ListFunc(ctx, filter)
}

func (m *guideServiceMock) Score(ctx context.Context, slug string) (*domain.Guide, moderation.Outcome, error) {
	return m.ScoreFunc(ctx, slug)
}

func (m *guideServiceMock) SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error {
	return m.SetStatusFunc(ctx, slug, status)
}

type taskServiceMock struct {
	GetStatsFunc       func(ctx context.Context) (domain.TaskStats, error)
	ListFunc           func(ctx context.Context, status domain.TaskStatus, limit, offset int) ([]domain.EnrichmentTask, error)
	RetryAllFailedFunc func(ctx context.Context) (int, error)
}

func (m *taskServiceMock) GetStats(ctx context.Context) (domain.TaskStats, error) {
	return m.GetStatsFunc(ctx)
}

func (m *taskServiceMock) List(ctx context.Context, status domain.TaskStatus, limit, offset int) ([]domain.EnrichmentTask, error) {
	return m.ListFunc(ctx, status, limit, offset)
}

func (m *taskServiceMock) RetryAllFailed(ctx context.Context) (int, error) {
	return m.RetryAllFailedFunc(ctx)
}

type authServiceMock struct {
	LoginFunc func(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error)
}

func (m *authServiceMock) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	return m.LoginFunc(ctx, input)
}

type blobOpenerMock struct {
	OpenFunc func(ctx context.Context, name string) (io.ReadCloser, error)
}

func (m *blobOpenerMock) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return m.OpenFunc(ctx, name)
}

var (
	_ inputValidator = &validatorMock{}
	_ recipeService  = &recipeServiceMock{}
	_ adminRecipes   = &recipeServiceMock{}
	_ commentService = &commentServiceMock{}
	_ photoService   = &photoServiceMock{}
	_ adminPhotos    = &photoServiceMock{}
	_ guideService   = &guideServiceMock{}
	_ adminGuides    = &guideServiceMock{}
	_ taskService    = &taskServiceMock{}
	_ authService    = &authServiceMock{}
	_ blobOpener     = &blobOpenerMock{}
)
