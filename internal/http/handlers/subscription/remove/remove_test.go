package remove

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-service/internal/common"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, userID, subscriptionID int64) error {
	return m.Called(ctx, userID, subscriptionID).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		userID         string
		subscriptionID string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешное удаление",
			userID:         "1",
			subscriptionID: "10",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(1), int64(10)).Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "некорректный id подписки",
			userID:         "1",
			subscriptionID: "ten",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid subscription id`,
		},
		{
			name:           "некорректный id пользователя",
			userID:         "one",
			subscriptionID: "10",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid user id`,
		},
		{
			name:           "чужая подписка",
			userID:         "2",
			subscriptionID: "10",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(2), int64(10)).
					Return(common.NewError(common.ErrOwnershipMismatch, "subscription 10 does not belong to user 2")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `subscription 10 does not belong to user 2`,
		},
		{
			name:           "подписка не найдена",
			userID:         "1",
			subscriptionID: "99",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(1), int64(99)).
					Return(common.NewError(common.ErrNotFound, "subscription not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `subscription not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete,
				"/users/"+tt.userID+"/subscriptions/"+tt.subscriptionID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("userId", tt.userID)
			rctx.URLParams.Add("subscriptionId", tt.subscriptionID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			mockService.AssertExpectations(t)
		})
	}
}
