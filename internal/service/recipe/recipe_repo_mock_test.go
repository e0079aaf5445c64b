package recipe

import (
	"context"
	"sync"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

var _ recipeRepo = &recipeRepoMock{}

type recipeRepoMock struct {
	CreateFunc     func(ctx context.Context, r *domain.Recipe) (*domain.Recipe, error)
	GetBySlugFunc  func(ctx context.Context, slug string) (*domain.Recipe, error)
	SlugExistsFunc func(ctx context.Context, slug string) (bool, error)
	ListFunc       func(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error)
	ApplyScoreFunc func(ctx context.Context, slug string, score float64, status domain.ContentStatus) error
	SetStatusFunc  func(ctx context.Context, slug string, status domain.ContentStatus) error

	calls struct {
		Create []struct {
			R *domain.Recipe
		}
		GetBySlug []struct {
			Slug string
		}
		SlugExists []struct {
			Slug string
		}
		List []struct {
			Filter domain.ListFilter
		}
		ApplyScore []struct {
			Slug   string
			Score  float64
			Status domain.ContentStatus
		}
		SetStatus []struct {
			Slug   string
			Status domain.ContentStatus
		}
	}
	lock sync.RWMutex
}

func (mock *recipeRepoMock) Create(ctx context.Context, r *domain.Recipe) (*domain.Recipe, error) {
	if mock.CreateFunc == nil {
		panic("recipeRepoMock.CreateFunc: method is nil but recipeRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ R *domain.Recipe }{R: r})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, r)
}

func (mock *recipeRepoMock) CreateCalls() []struct{ R *domain.Recipe } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *recipeRepoMock) GetBySlug(ctx context.Context, slug string) (*domain.Recipe, error) {
	if mock.GetBySlugFunc == nil {
		panic("recipeRepoMock.GetBySlugFunc: method is nil but recipeRepo.GetBySlug was just called")
	}
	mock.lock.Lock()
	mock.calls.GetBySlug = append(mock.calls.GetBySlug, struct{ Slug string }{Slug: slug})
	mock.lock.Unlock()
	return mock.GetBySlugFunc(ctx, slug)
}

func (mock *recipeRepoMock) SlugExists(ctx context.Context, slug string) (bool, error) {
	mock.lock.Lock()
	mock.calls.SlugExists = append(mock.calls.SlugExists, struct{ Slug string }{Slug: slug})
	mock.lock.Unlock()
	if mock.SlugExistsFunc == nil {
		return false, nil
	}
	return mock.SlugExistsFunc(ctx, slug)
}

func (mock *recipeRepoMock) SlugExistsCalls() []struct{ Slug string } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SlugExists
}

func (mock *recipeRepoMock) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error) {
	if mock.ListFunc == nil {
		panic("recipeRepoMock.ListFunc: method is nil but recipeRepo.List was just called")
	}
	mock.lock.Lock()
	mock.calls.List = append(mock.calls.List, struct{ Filter domain.ListFilter }{Filter: filter})
	mock.lock.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *recipeRepoMock) ListCalls() []struct{ Filter domain.ListFilter } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.List
}

func (mock *recipeRepoMock) ApplyScore(ctx context.Context, slug string, score float64, status domain.ContentStatus) error {
	mock.lock.Lock()
	mock.calls.ApplyScore = append(mock.calls.ApplyScore, struct {
		Slug   string
		Score  float64
		Status domain.ContentStatus
	}{Slug: slug, Score: score, Status: status})
	mock.lock.Unlock()
	if mock.ApplyScoreFunc == nil {
		return nil
	}
	return mock.ApplyScoreFunc(ctx, slug, score, status)
}

func (mock *recipeRepoMock) ApplyScoreCalls() []struct {
	Slug   string
	Score  float64
	Status domain.ContentStatus
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.ApplyScore
}

func (mock *recipeRepoMock) SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error {
	mock.lock.Lock()
	mock.calls.SetStatus = append(mock.calls.SetStatus, struct {
		Slug   string
		Status domain.ContentStatus
	}{Slug: slug, Status: status})
	mock.lock.Unlock()
	if mock.SetStatusFunc == nil {
		return nil
	}
	return mock.SetStatusFunc(ctx, slug, status)
}

func (mock *recipeRepoMock) SetStatusCalls() []struct {
	Slug   string
	Status domain.ContentStatus
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SetStatus
}
