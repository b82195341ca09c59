package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/store"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	email := "seneca@example.com"
	password := "a-long-enough-password"

	t.Run("success", func(t *testing.T) {
		userStore := &MockUserStore{}
		db, dbMock := newMockDB(t)
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		userStore.On("Create", mock.Anything, mock.MatchedBy(func(user *domain.User) bool {
			return user.Email == email && user.Password == password
		})).Return(nil)

		svc := NewUserService(userStore, db, discardLogger())

		user, err := svc.CreateUser(ctx, email, password)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, email, user.Email)
		assert.NotEqual(t, uuid.Nil, user.ID)

		userStore.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("email already registered", func(t *testing.T) {
		userStore := &MockUserStore{}
		db, dbMock := newMockDB(t)
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		userStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		svc := NewUserService(userStore, db, discardLogger())

		user, err := svc.CreateUser(ctx, email, password)
		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid password", func(t *testing.T) {
		userStore := &MockUserStore{}
		db, _ := newMockDB(t)

		svc := NewUserService(userStore, db, discardLogger())

		user, err := svc.CreateUser(ctx, email, "short")
		require.Error(t, err)
		assert.Nil(t, user)

		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		userStore := &MockUserStore{}
		db, _ := newMockDB(t)

		want := &domain.User{ID: uuid.New(), Email: "marcus@example.com"}
		userStore.On("GetByID", mock.Anything, want.ID).Return(want, nil)

		svc := NewUserService(userStore, db, discardLogger())

		user, err := svc.GetUser(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, user)
	})

	t.Run("not found", func(t *testing.T) {
		userStore := &MockUserStore{}
		db, _ := newMockDB(t)

		userStore.On("GetByID", mock.Anything, mock.Anything).Return(nil, store.ErrUserNotFound)

		svc := NewUserService(userStore, db, discardLogger())

		user, err := svc.GetUser(ctx, uuid.New())
		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserService_GetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		userStore := &MockUserStore{}
		db, _ := newMockDB(t)

		want := &domain.User{ID: uuid.New(), Email: "epictetus@example.com"}
		userStore.On("GetByEmail", mock.Anything, want.Email).Return(want, nil)

		svc := NewUserService(userStore, db, discardLogger())

		user, err := svc.GetUserByEmail(ctx, want.Email)
		require.NoError(t, err)
		assert.Equal(t, want, user)
	})

	t.Run("store failure", func(t *testing.T) {
		userStore := &MockUserStore{}
		db, _ := newMockDB(t)

		storeErr := errors.New("connection reset")
		userStore.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, storeErr)

		svc := NewUserService(userStore, db, discardLogger())

		user, err := svc.GetUserByEmail(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, storeErr)
	})
}
