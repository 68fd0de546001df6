package storage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// MockStore is a testify mock of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, id string) (*types.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Entity), args.Error(1)
}

func (m *MockStore) Put(ctx context.Context, entity *types.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

// Scan feeds the entities given as the first return value to fn
func (m *MockStore) Scan(ctx context.Context, fn func(*types.Entity) bool) error {
	args := m.Called(ctx)
	if entities, ok := args.Get(0).([]*types.Entity); ok {
		for _, e := range entities {
			if !fn(e) {
				break
			}
		}
	}
	return args.Error(1)
}

func (m *MockStore) Stats(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ Store = (*MockStore)(nil)
