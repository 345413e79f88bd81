package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-service/internal/common"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) ExistsUserWithEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) SaveUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) DeleteUserByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) DeleteSubscriptionsByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// TxMock выполняет fn сразу и считает вызовы.
type TxMock struct{ calls int }

func (m *TxMock) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *RepoMock, tx *TxMock) *UserService {
	svc := NewUserService(repo, tx, newNoopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestUserService_Create(t *testing.T) {
	req := models.UserRequest{UserName: "Ann", Email: "ann@x.com"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantID     int64
		wantErr    error
	}{
		{
			name: "успешное создание",
			setupMocks: func(r *RepoMock) {
				r.On("ExistsUserWithEmail", mock.Anything, "ann@x.com").Return(false, nil).Once()
				r.On("SaveUser", mock.Anything, models.User{
					UserName: "Ann", Email: "ann@x.com", CreatedAt: fixedNow, UpdatedAt: fixedNow,
				}).Return(&models.User{
					ID: 1, UserName: "Ann", Email: "ann@x.com", CreatedAt: fixedNow, UpdatedAt: fixedNow,
				}, nil).Once()
			},
			wantID: 1,
		},
		{
			name: "email уже занят",
			setupMocks: func(r *RepoMock) {
				r.On("ExistsUserWithEmail", mock.Anything, "ann@x.com").Return(true, nil).Once()
			},
			wantErr: common.ErrAlreadyExists,
		},
		{
			name: "гонка: уникальный индекс в хранилище",
			setupMocks: func(r *RepoMock) {
				r.On("ExistsUserWithEmail", mock.Anything, "ann@x.com").Return(false, nil).Once()
				r.On("SaveUser", mock.Anything, mock.Anything).
					Return(nil, common.ErrAlreadyExists).Once()
			},
			wantErr: common.ErrAlreadyExists,
		},
		{
			name: "ошибка хранилища",
			setupMocks: func(r *RepoMock) {
				r.On("ExistsUserWithEmail", mock.Anything, "ann@x.com").Return(false, errors.New("db down")).Once()
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tx := new(TxMock)
			svc := newTestService(repo, tx)
			tt.setupMocks(repo)

			got, err := svc.Create(context.Background(), req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)
				if errors.Is(tt.wantErr, common.ErrAlreadyExists) {
					assert.ErrorIs(t, err, common.ErrAlreadyExists)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}
				repo.AssertNotCalled(t, "DeleteUserByID", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.ID)
				assert.Equal(t, fixedNow, got.CreatedAt)
			}
			assert.Equal(t, 1, tx.calls)
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Get(t *testing.T) {
	t.Run("найден", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, new(TxMock))
		repo.On("FindUserByID", mock.Anything, int64(1)).
			Return(&models.User{ID: 1, UserName: "Ann", Email: "ann@x.com"}, nil).Once()

		got, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "ann@x.com", got.Email)
	})

	t.Run("не найден", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, new(TxMock))
		repo.On("FindUserByID", mock.Anything, int64(2)).Return(nil, common.ErrNotFound).Once()

		got, err := svc.Get(context.Background(), 2)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.ErrorContains(t, err, "user not found")
	})
}

func TestUserService_Update(t *testing.T) {
	created := fixedNow.Add(-24 * time.Hour)
	existing := func() *models.User {
		return &models.User{ID: 1, UserName: "Ann", Email: "ann@x.com", CreatedAt: created, UpdatedAt: created}
	}

	tests := []struct {
		name       string
		req        models.UserRequest
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "смена имени без смены email не проверяет уникальность",
			req:  models.UserRequest{UserName: "Anna", Email: "ann@x.com"},
			setupMocks: func(r *RepoMock) {
				r.On("FindUserByID", mock.Anything, int64(1)).Return(existing(), nil).Once()
				r.On("SaveUser", mock.Anything, models.User{
					ID: 1, UserName: "Anna", Email: "ann@x.com", CreatedAt: created, UpdatedAt: fixedNow,
				}).Return(&models.User{
					ID: 1, UserName: "Anna", Email: "ann@x.com", CreatedAt: created, UpdatedAt: fixedNow,
				}, nil).Once()
			},
		},
		{
			name: "смена email на свободный",
			req:  models.UserRequest{UserName: "Ann", Email: "new@x.com"},
			setupMocks: func(r *RepoMock) {
				r.On("FindUserByID", mock.Anything, int64(1)).Return(existing(), nil).Once()
				r.On("ExistsUserWithEmail", mock.Anything, "new@x.com").Return(false, nil).Once()
				r.On("SaveUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "new@x.com" && u.CreatedAt.Equal(created)
				})).Return(&models.User{ID: 1, UserName: "Ann", Email: "new@x.com"}, nil).Once()
			},
		},
		{
			name: "смена email на занятый",
			req:  models.UserRequest{UserName: "Ann", Email: "bob@x.com"},
			setupMocks: func(r *RepoMock) {
				r.On("FindUserByID", mock.Anything, int64(1)).Return(existing(), nil).Once()
				r.On("ExistsUserWithEmail", mock.Anything, "bob@x.com").Return(true, nil).Once()
			},
			wantErr: common.ErrAlreadyExists,
		},
		{
			name: "пользователь не найден",
			req:  models.UserRequest{UserName: "Ann", Email: "ann@x.com"},
			setupMocks: func(r *RepoMock) {
				r.On("FindUserByID", mock.Anything, int64(1)).Return(nil, common.ErrNotFound).Once()
			},
			wantErr: common.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newTestService(repo, new(TxMock))
			tt.setupMocks(repo)

			got, err := svc.Update(context.Background(), 1, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				repo.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.req.Email, got.Email)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	t.Run("удаляет подписки, затем пользователя", func(t *testing.T) {
		repo := new(RepoMock)
		tx := new(TxMock)
		svc := newTestService(repo, tx)

		var order []string
		repo.On("FindUserByID", mock.Anything, int64(1)).Return(&models.User{ID: 1}, nil).Once()
		repo.On("DeleteSubscriptionsByUserID", mock.Anything, int64(1)).Return(int64(2), nil).Once().
			Run(func(mock.Arguments) { order = append(order, "subscriptions") })
		repo.On("DeleteUserByID", mock.Anything, int64(1)).Return(nil).Once().
			Run(func(mock.Arguments) { order = append(order, "user") })

		require.NoError(t, svc.Delete(context.Background(), 1))
		assert.Equal(t, []string{"subscriptions", "user"}, order)
		assert.Equal(t, 1, tx.calls)
		repo.AssertExpectations(t)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, new(TxMock))
		repo.On("FindUserByID", mock.Anything, int64(9)).Return(nil, common.ErrNotFound).Once()

		err := svc.Delete(context.Background(), 9)
		assert.ErrorIs(t, err, common.ErrNotFound)
		repo.AssertNotCalled(t, "DeleteSubscriptionsByUserID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "DeleteUserByID", mock.Anything, mock.Anything)
	})

	t.Run("ошибка удаления подписок прерывает операцию", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, new(TxMock))
		repo.On("FindUserByID", mock.Anything, int64(1)).Return(&models.User{ID: 1}, nil).Once()
		repo.On("DeleteSubscriptionsByUserID", mock.Anything, int64(1)).Return(int64(0), errors.New("db down")).Once()

		err := svc.Delete(context.Background(), 1)
		assert.ErrorContains(t, err, "db down")
		repo.AssertNotCalled(t, "DeleteUserByID", mock.Anything, mock.Anything)
	})
}

func TestUserService_ResolveUser(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, new(TxMock))
	dbErr := errors.New("connection reset")
	repo.On("FindUserByID", mock.Anything, int64(3)).Return(nil, dbErr).Once()

	_, err := svc.ResolveUser(context.Background(), 3)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}
