package settlement

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/walico/walico-backend/internal/domain"
)

var _ Store = &StoreMock{}

// StoreMock is a mock implementation of Store.
type StoreMock struct {
	CreateFunc              func(ctx context.Context, s *domain.Settlement) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)
	MarkPaidFunc            func(ctx context.Context, id uuid.UUID) error
	DeleteExpiredBeforeFunc func(ctx context.Context, now int64, batchSize int) (int, error)
	ListExpiredBeforeFunc   func(ctx context.Context, now int64) ([]*domain.Settlement, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			S   *domain.Settlement
		}
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		MarkPaid []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		DeleteExpiredBefore []struct {
			Ctx       context.Context
			Now       int64
			BatchSize int
		}
		ListExpiredBefore []struct {
			Ctx context.Context
			Now int64
		}
	}
	lockCreate              sync.RWMutex
	lockGetByID             sync.RWMutex
	lockMarkPaid            sync.RWMutex
	lockDeleteExpiredBefore sync.RWMutex
	lockListExpiredBefore   sync.RWMutex
}

func (mock *StoreMock) Create(ctx context.Context, s *domain.Settlement) error {
	if mock.CreateFunc == nil {
		panic("StoreMock.CreateFunc: method is nil but Store.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   *domain.Settlement
	}{Ctx: ctx, S: s}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *StoreMock) CreateCalls() []struct {
	Ctx context.Context
	S   *domain.Settlement
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *StoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	if mock.GetByIDFunc == nil {
		panic("StoreMock.GetByIDFunc: method is nil but Store.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *StoreMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *StoreMock) MarkPaid(ctx context.Context, id uuid.UUID) error {
	if mock.MarkPaidFunc == nil {
		panic("StoreMock.MarkPaidFunc: method is nil but Store.MarkPaid was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockMarkPaid.Lock()
	mock.calls.MarkPaid = append(mock.calls.MarkPaid, callInfo)
	mock.lockMarkPaid.Unlock()
	return mock.MarkPaidFunc(ctx, id)
}

func (mock *StoreMock) MarkPaidCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockMarkPaid.RLock()
	calls := mock.calls.MarkPaid
	mock.lockMarkPaid.RUnlock()
	return calls
}

func (mock *StoreMock) DeleteExpiredBefore(ctx context.Context, now int64, batchSize int) (int, error) {
	if mock.DeleteExpiredBeforeFunc == nil {
		panic("StoreMock.DeleteExpiredBeforeFunc: method is nil but Store.DeleteExpiredBefore was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Now       int64
		BatchSize int
	}{Ctx: ctx, Now: now, BatchSize: batchSize}
	mock.lockDeleteExpiredBefore.Lock()
	mock.calls.DeleteExpiredBefore = append(mock.calls.DeleteExpiredBefore, callInfo)
	mock.lockDeleteExpiredBefore.Unlock()
	return mock.DeleteExpiredBeforeFunc(ctx, now, batchSize)
}

func (mock *StoreMock) DeleteExpiredBeforeCalls() []struct {
	Ctx       context.Context
	Now       int64
	BatchSize int
} {
	mock.lockDeleteExpiredBefore.RLock()
	calls := mock.calls.DeleteExpiredBefore
	mock.lockDeleteExpiredBefore.RUnlock()
	return calls
}

func (mock *StoreMock) ListExpiredBefore(ctx context.Context, now int64) ([]*domain.Settlement, error) {
	if mock.ListExpiredBeforeFunc == nil {
		panic("StoreMock.ListExpiredBeforeFunc: method is nil but Store.ListExpiredBefore was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now int64
	}{Ctx: ctx, Now: now}
	mock.lockListExpiredBefore.Lock()
	mock.calls.ListExpiredBefore = append(mock.calls.ListExpiredBefore, callInfo)
	mock.lockListExpiredBefore.Unlock()
	return mock.ListExpiredBeforeFunc(ctx, now)
}

func (mock *StoreMock) ListExpiredBeforeCalls() []struct {
	Ctx context.Context
	Now int64
} {
	mock.lockListExpiredBefore.RLock()
	calls := mock.calls.ListExpiredBefore
	mock.lockListExpiredBefore.RUnlock()
	return calls
}
