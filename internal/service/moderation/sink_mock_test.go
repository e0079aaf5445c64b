package moderation

import (
	"context"
	"sync"
)

type sinkMock[T Item] struct {
	ApplyFunc func(ctx context.Context, item T, out Outcome) error

	calls struct {
		Apply []struct {
			Item T
			Out  Outcome
		}
	}
	lockApply sync.RWMutex
}

func (mock *sinkMock[T]) Apply(ctx context.Context, item T, out Outcome) error {
	callInfo := struct {
		Item T
		Out  Outcome
	}{Item: item, Out: out}
	mock.lockApply.Lock()
	mock.calls.Apply = append(mock.calls.Apply, callInfo)
	mock.lockApply.Unlock()
	if mock.ApplyFunc == nil {
		return nil
	}
	return mock.ApplyFunc(ctx, item, out)
}

func (mock *sinkMock[T]) ApplyCalls() []struct {
	Item T
	Out  Outcome
} {
	mock.lockApply.RLock()
	calls := mock.calls.Apply
	mock.lockApply.RUnlock()
	return calls
}
