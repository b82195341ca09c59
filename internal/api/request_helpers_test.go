package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/sophia-api/internal/api/shared"
	"github.com/phrazzld/sophia-api/internal/domain"
)

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name           string
		setupContext   func() context.Context
		expectedUserID uuid.UUID
		expectedOK     bool
	}{
		{
			name: "valid user ID in context",
			setupContext: func() context.Context {
				userID := uuid.New()
				return context.WithValue(context.Background(), shared.UserIDContextKey, userID)
			},
			expectedOK: true,
		},
		{
			name: "missing user ID in context",
			setupContext: func() context.Context {
				return context.Background()
			},
			expectedUserID: uuid.Nil,
			expectedOK:     false,
		},
		{
			name: "nil user ID in context",
			setupContext: func() context.Context {
				return context.WithValue(context.Background(), shared.UserIDContextKey, uuid.Nil)
			},
			expectedUserID: uuid.Nil,
			expectedOK:     false,
		},
		{
			name: "wrong type in context",
			setupContext: func() context.Context {
				return context.WithValue(context.Background(), shared.UserIDContextKey, "not-a-uuid")
			},
			expectedUserID: uuid.Nil,
			expectedOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(tt.setupContext())

			userID, ok := getUserIDFromContext(req)

			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.NotEqual(t, uuid.Nil, userID)
			} else {
				assert.Equal(t, tt.expectedUserID, userID)
			}
		})
	}
}

func TestGetPathUUID(t *testing.T) {
	validUUID := uuid.New()

	tests := []struct {
		name        string
		paramValue  string
		expectedErr error
		expectedID  uuid.UUID
	}{
		{
			name:       "valid UUID parameter",
			paramValue: validUUID.String(),
			expectedID: validUUID,
		},
		{
			name:        "missing parameter",
			paramValue:  "",
			expectedErr: domain.ErrValidation,
			expectedID:  uuid.Nil,
		},
		{
			name:        "invalid UUID format",
			paramValue:  "invalid-uuid",
			expectedErr: domain.ErrInvalidID,
			expectedID:  uuid.Nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.paramValue != "" {
				req = withPathParam(req, "id", tt.paramValue)
			}

			id, err := getPathUUID(req, "id")

			assert.Equal(t, tt.expectedID, id)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHandleUserIDAndPathUUID(t *testing.T) {
	validUserID := uuid.New()
	validPathUUID := uuid.New()

	tests := []struct {
		name           string
		userID         uuid.UUID
		paramValue     string
		expectedStatus int
		expectedOK     bool
	}{
		{
			name:       "valid user ID and path UUID",
			userID:     validUserID,
			paramValue: validPathUUID.String(),
			expectedOK: true,
		},
		{
			name:           "missing user ID",
			userID:         uuid.Nil,
			paramValue:     validPathUUID.String(),
			expectedStatus: http.StatusUnauthorized,
			expectedOK:     false,
		},
		{
			name:           "valid user ID but invalid path UUID",
			userID:         validUserID,
			paramValue:     "invalid-uuid",
			expectedStatus: http.StatusBadRequest,
			expectedOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != uuid.Nil {
				req = withUser(req, tt.userID)
			}
			req = withPathParam(req, "id", tt.paramValue)
			rr := httptest.NewRecorder()

			userID, pathID, ok := handleUserIDAndPathUUID(rr, req, "id", testLogger())

			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.userID, userID)
				assert.Equal(t, validPathUUID, pathID)
			} else {
				assert.Equal(t, uuid.Nil, userID)
				assert.Equal(t, uuid.Nil, pathID)
				assert.Equal(t, tt.expectedStatus, rr.Code)
			}
		})
	}
}
