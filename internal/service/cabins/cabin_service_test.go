package cabins

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCabinClassRepository struct {
	mock.Mock
}

func (m *MockCabinClassRepository) GetByID(ctx context.Context, id int) (*domain.CabinClass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CabinClass), args.Error(1)
}

func (m *MockCabinClassRepository) List(ctx context.Context) ([]domain.CabinClass, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CabinClass), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetCabinClasses(ctx context.Context) ([]domain.CabinClass, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CabinClass), args.Error(1)
}

func (m *MockCache) SetCabinClasses(ctx context.Context, classes []domain.CabinClass) error {
	return m.Called(ctx, classes).Error(0)
}

var seeded = []domain.CabinClass{
	{ID: 1, Name: "Economy"},
	{ID: 2, Name: "Premium Economy", PricePercent: 25},
	{ID: 3, Name: "Business", PricePercent: 50},
}

func TestCabinClassService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		repo := &MockCabinClassRepository{}
		cache := &MockCache{}
		cache.On("GetCabinClasses", mock.Anything).Return(seeded, nil).Once()

		got, err := NewCabinClassService(repo, cache).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, seeded, got)
		repo.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("cache miss", func(t *testing.T) {
		repo := &MockCabinClassRepository{}
		repo.On("List", mock.Anything).Return(seeded, nil).Once()
		cache := &MockCache{}
		cache.On("GetCabinClasses", mock.Anything).Return(nil, nil).Once()
		cache.On("SetCabinClasses", mock.Anything, seeded).Return(nil).Once()

		got, err := NewCabinClassService(repo, cache).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, seeded, got)
		cache.AssertExpectations(t)
	})

	t.Run("without cache", func(t *testing.T) {
		repo := &MockCabinClassRepository{}
		repo.On("List", mock.Anything).Return(seeded, nil).Once()

		got, err := NewCabinClassService(repo, nil).List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &MockCabinClassRepository{}
		repo.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()
		cache := &MockCache{}
		cache.On("GetCabinClasses", mock.Anything).Return(nil, errors.New("redis down")).Once()

		_, err := NewCabinClassService(repo, cache).List(ctx)
		assert.EqualError(t, err, "db down")
		cache.AssertNotCalled(t, "SetCabinClasses", mock.Anything, mock.Anything)
	})
}

func TestCabinClassService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("from cached list", func(t *testing.T) {
		repo := &MockCabinClassRepository{}
		cache := &MockCache{}
		cache.On("GetCabinClasses", mock.Anything).Return(seeded, nil)
		service := NewCabinClassService(repo, cache)

		got, err := service.Get(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Business", got.Name)
		assert.Equal(t, 50, got.PricePercent)

		_, err = service.Get(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("point lookup on cache miss", func(t *testing.T) {
		repo := &MockCabinClassRepository{}
		repo.On("GetByID", mock.Anything, 2).Return(&seeded[1], nil).Once()
		cache := &MockCache{}
		cache.On("GetCabinClasses", mock.Anything).Return(nil, nil).Once()

		got, err := NewCabinClassService(repo, cache).Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 25, got.PricePercent)
		repo.AssertExpectations(t)
	})

	t.Run("not found without cache", func(t *testing.T) {
		repo := &MockCabinClassRepository{}
		repo.On("GetByID", mock.Anything, 9).Return(nil, domain.NewNotFoundError("cabin class 9 not found")).Once()

		_, err := NewCabinClassService(repo, nil).Get(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
