package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/dto"
	"github.com/sweeptrade/backend/internal/service/authservice"
	"github.com/sweeptrade/backend/internal/service/referralservice"
	"github.com/sweeptrade/backend/pkg/utils"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*AuthHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestRegisterHandler(t *testing.T) {
	handler, service := NewMock(t)

	registerBody := `{"first_name":"Ada","last_name":"Mensah","email":"ada@example.com","password":"password123","country":"Ghana","phone":"+233201234567"}`
	registerInput := authservice.RegisterInput{
		FirstName: "Ada",
		LastName:  "Mensah",
		Email:     "ada@example.com",
		Password:  "password123",
		Country:   "Ghana",
		Phone:     "+233201234567",
	}

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful registration",
			body: registerBody,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), registerInput).Return(&domain.User{
					ID:           1,
					Email:        "ada@example.com",
					ReferralCode: "A3B8ZQ",
				}, nil)
				service.EXPECT().GenerateToken(1).Return("some-jwt-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "User already exists",
			body: registerBody,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), registerInput).
					Return(nil, authservice.ErrEmailTaken)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "user already exists with this email",
		},
		{
			name: "Invalid referral code",
			body: `{"first_name":"Ada","last_name":"Mensah","email":"ada@example.com","password":"password123","referral_code":"ZZZZZZ"}`,
			prepareMock: func() {
				in := authservice.RegisterInput{
					FirstName:    "Ada",
					LastName:     "Mensah",
					Email:        "ada@example.com",
					Password:     "password123",
					ReferralCode: "ZZZZZZ",
				}
				service.EXPECT().Register(context.Background(), in).
					Return(nil, referralservice.ErrInvalidReferralCode)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid referral code",
		},
		{
			name:          "Password too short",
			body:          `{"first_name":"Ada","email":"ada@example.com","password":"short"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Password must be at least 8 characters long",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Error generating token",
			body: registerBody,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), registerInput).Return(&domain.User{
					ID: 1,
				}, nil)
				service.EXPECT().GenerateToken(1).Return("", errors.New("token generation error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("POST", "/api/user/register", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()

			handler.Register(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			}
			if tt.expectedCode == http.StatusOK && tt.expectedError == "" {
				assert.Equal(t, "Bearer some-jwt-token", rr.Header().Get("Authorization"))
				var resp dto.RegisterResponseDTO
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "A3B8ZQ", resp.ReferralCode)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful login",
			body: `{"email":"ada@example.com","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(context.Background(), "ada@example.com", "password123").
					Return(&domain.User{ID: 1, Email: "ada@example.com"}, nil)
				service.EXPECT().GenerateToken(1).Return("some-jwt-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Invalid credentials",
			body: `{"email":"ada@example.com","password":"wrongpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(context.Background(), "ada@example.com", "wrongpassword").
					Return(nil, errors.New("invalid credentials"))
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid credentials",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Error generating token",
			body: `{"email":"ada@example.com","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(context.Background(), "ada@example.com", "password123").
					Return(&domain.User{ID: 1}, nil)
				service.EXPECT().GenerateToken(1).Return("", errors.New("token generation error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("POST", "/api/user/login", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()

			handler.Login(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}
