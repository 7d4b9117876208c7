package accrualservice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockUserRepo) {
	ctrl := gomock.NewController(t)
	userRepo := NewMockUserRepo(ctrl)
	service := New(userRepo, 4)
	defer ctrl.Finish()
	return service, userRepo
}

func TestAccrue(t *testing.T) {
	service, userRepo := NewMock(t)
	service.now = func() time.Time {
		return time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)
	}
	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		prepareMock    func()
		expectedProfit float64
		expectedApply  bool
		expectedError  error
	}{
		{
			name: "First accrual of the day",
			prepareMock: func() {
				userRepo.EXPECT().ApplyAccrual(gomock.Any(), 1, midnight).Return(150.0, true, nil)
			},
			expectedProfit: 150.0,
			expectedApply:  true,
		},
		{
			name: "Second call the same day is a no-op",
			prepareMock: func() {
				userRepo.EXPECT().ApplyAccrual(gomock.Any(), 1, midnight).Return(0.0, false, nil)
			},
			expectedProfit: 0,
			expectedApply:  false,
		},
		{
			name: "Repository error",
			prepareMock: func() {
				userRepo.EXPECT().ApplyAccrual(gomock.Any(), 1, midnight).Return(0.0, false, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			profit, applied, err := service.Accrue(context.Background(), 1)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedProfit, profit)
				assert.Equal(t, tt.expectedApply, applied)
			}
		})
	}
}

// casRepo imitates the database compare-and-set: the first accrual for a given
// day wins, every later one reports applied=false.
type casRepo struct {
	mu       sync.Mutex
	lastDay  map[int]time.Time
	applied  atomic.Int64
	attempts atomic.Int64
}

func newCASRepo() *casRepo {
	return &casRepo{lastDay: make(map[int]time.Time)}
}

func (r *casRepo) ApplyAccrual(_ context.Context, userID int, day time.Time) (float64, bool, error) {
	r.attempts.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if last, ok := r.lastDay[userID]; ok && !last.Before(day) {
		return 0, false, nil
	}
	r.lastDay[userID] = day
	r.applied.Add(1)
	return 150, true, nil
}

func (r *casRepo) FindIDsWithActivePositions(context.Context) ([]int, error) {
	return []int{1}, nil
}

func TestAccrue_ConcurrentSingleCredit(t *testing.T) {
	repo := newCASRepo()
	service := New(repo, 4)
	service.now = func() time.Time {
		return time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)
	}

	const callers = 16
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := service.Accrue(context.Background(), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(callers), repo.attempts.Load())
	assert.Equal(t, int64(1), repo.applied.Load(), "exactly one caller may credit the day")
}

func TestRunBatch(t *testing.T) {
	t.Run("Visits every account once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := NewMockUserRepo(ctrl)
		service := New(userRepo, 4)
		service.now = func() time.Time {
			return time.Date(2024, 3, 15, 0, 30, 0, 0, time.UTC)
		}
		midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

		// The pool executes tasks asynchronously; wait for every account.
		var done sync.WaitGroup
		done.Add(3)
		userRepo.EXPECT().FindIDsWithActivePositions(gomock.Any()).Return([]int{1, 2, 3}, nil)
		userRepo.EXPECT().ApplyAccrual(gomock.Any(), gomock.Any(), midnight).DoAndReturn(
			func(context.Context, int, time.Time) (float64, bool, error) {
				done.Done()
				return 150.0, true, nil
			}).Times(3)

		err := service.RunBatch(context.Background())
		assert.NoError(t, err)
		done.Wait()
	})

	t.Run("One failing account does not stop the batch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := NewMockUserRepo(ctrl)
		service := New(userRepo, 4)
		service.now = func() time.Time {
			return time.Date(2024, 3, 16, 0, 30, 0, 0, time.UTC)
		}
		midnight := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

		var done sync.WaitGroup
		done.Add(2)
		userRepo.EXPECT().FindIDsWithActivePositions(gomock.Any()).Return([]int{4, 5}, nil)
		userRepo.EXPECT().ApplyAccrual(gomock.Any(), 4, midnight).DoAndReturn(
			func(context.Context, int, time.Time) (float64, bool, error) {
				done.Done()
				return 0, false, errors.New("db error")
			})
		userRepo.EXPECT().ApplyAccrual(gomock.Any(), 5, midnight).DoAndReturn(
			func(context.Context, int, time.Time) (float64, bool, error) {
				done.Done()
				return 90.0, true, nil
			})

		err := service.RunBatch(context.Background())
		assert.NoError(t, err)
		done.Wait()
	})

	t.Run("Listing error aborts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := NewMockUserRepo(ctrl)
		service := New(userRepo, 4)

		userRepo.EXPECT().FindIDsWithActivePositions(gomock.Any()).Return(nil, errors.New("db error"))

		err := service.RunBatch(context.Background())
		assert.Error(t, err)
	})
}
