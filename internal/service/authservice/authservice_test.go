package authservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sweeptrade/backend/internal/domain"
	userrepo "github.com/sweeptrade/backend/internal/repo/user-repo"
	"github.com/sweeptrade/backend/internal/service/referralservice"
	"github.com/sweeptrade/backend/pkg/auth"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	userRepo    *MockRepo
	referral    *MockReferralService
	hashService *auth.MockHashServiceInterface
	jwtService  *auth.MockJWTServiceInterface
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		userRepo:    NewMockRepo(ctrl),
		referral:    NewMockReferralService(ctrl),
		hashService: auth.NewMockHashServiceInterface(ctrl),
		jwtService:  auth.NewMockJWTServiceInterface(ctrl),
	}
	service := New(m.userRepo, m.referral, m.hashService, m.jwtService)
	defer ctrl.Finish()
	return service, m
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Mensah",
		Email:     "ada@example.com",
		Password:  "password123",
		Country:   "Ghana",
		Phone:     "+233201234567",
	}
}

func TestRegister(t *testing.T) {
	referrerID := 7

	tests := []struct {
		name          string
		input         func() RegisterInput
		prepareMock   func(m *mocks)
		expectedError error
		check         func(t *testing.T, user *domain.User)
	}{
		{
			name:  "New account without referral",
			input: registerInput,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
				m.hashService.EXPECT().HashPassword("password123").Return("hashed_password", nil)
				m.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.Equal(t, "hashed_password", user.PasswordHash)
						assert.Len(t, user.ReferralCode, 6)
						assert.Nil(t, user.ReferredBy)
						user.ID = 1
						return user, nil
					})
			},
			check: func(t *testing.T, user *domain.User) {
				assert.Equal(t, "ada@example.com", user.Email)
				assert.NotEmpty(t, user.ReferralCode)
			},
		},
		{
			name: "Referred account triggers the signup bonus",
			input: func() RegisterInput {
				in := registerInput()
				in.ReferralCode = "X7K2P9"
				return in
			},
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
				m.referral.EXPECT().ResolveCode(gomock.Any(), "X7K2P9").
					Return(&domain.User{ID: referrerID}, nil)
				m.hashService.EXPECT().HashPassword("password123").Return("hashed_password", nil)
				m.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.Equal(t, &referrerID, user.ReferredBy)
						user.ID = 1
						return user, nil
					})
				m.referral.EXPECT().ApplySignupBonus(gomock.Any(), referrerID, "Ada").Return(nil)
			},
			check: func(t *testing.T, user *domain.User) {
				assert.Equal(t, &referrerID, user.ReferredBy)
			},
		},
		{
			name: "Unknown referral code rejects before any write",
			input: func() RegisterInput {
				in := registerInput()
				in.ReferralCode = "ZZZZZZ"
				return in
			},
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
				m.referral.EXPECT().ResolveCode(gomock.Any(), "ZZZZZZ").
					Return(nil, referralservice.ErrInvalidReferralCode)
			},
			expectedError: referralservice.ErrInvalidReferralCode,
		},
		{
			name:  "Email already registered",
			input: registerInput,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").
					Return(&domain.User{ID: 2, Email: "ada@example.com"}, nil)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name:  "Referral code collision retries with a new code",
			input: registerInput,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
				m.hashService.EXPECT().HashPassword("password123").Return("hashed_password", nil)
				first := m.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, userrepo.ErrDuplicate)
				m.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, user *domain.User) (*domain.User, error) {
						user.ID = 1
						return user, nil
					}).After(first)
			},
			check: func(t *testing.T, user *domain.User) {
				assert.NotEmpty(t, user.ReferralCode)
			},
		},
		{
			name:  "Concurrent signup for the same email",
			input: registerInput,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
				m.hashService.EXPECT().HashPassword("password123").Return("hashed_password", nil)
				m.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, userrepo.ErrDuplicateEmail)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name: "Failed bonus cascade does not fail the signup",
			input: func() RegisterInput {
				in := registerInput()
				in.ReferralCode = "X7K2P9"
				return in
			},
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
				m.referral.EXPECT().ResolveCode(gomock.Any(), "X7K2P9").
					Return(&domain.User{ID: referrerID}, nil)
				m.hashService.EXPECT().HashPassword("password123").Return("hashed_password", nil)
				m.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, user *domain.User) (*domain.User, error) {
						user.ID = 1
						return user, nil
					})
				m.referral.EXPECT().ApplySignupBonus(gomock.Any(), referrerID, "Ada").
					Return(errors.New("bonus failed"))
			},
			check: func(t *testing.T, user *domain.User) {
				assert.Equal(t, "ada@example.com", user.Email)
			},
		},
		{
			name:  "Hashing error",
			input: registerInput,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
				m.hashService.EXPECT().HashPassword("password123").Return("", errors.New("hash error"))
			},
			expectedError: errors.New("hash error"),
		},
		{
			name:  "Database error on lookup",
			input: registerInput,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").
					Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			user, err := service.Register(context.Background(), tt.input())
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				tt.check(t, user)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		prepareMock func(m *mocks)
		expectErr   bool
	}{
		{
			name: "Valid credentials",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").
					Return(&domain.User{ID: 1, Email: "ada@example.com", PasswordHash: "hashed_password"}, nil)
				m.hashService.EXPECT().ComparePassword("hashed_password", "password123").Return(true)
			},
		},
		{
			name: "Unknown email",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
			},
			expectErr: true,
		},
		{
			name: "Wrong password",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").
					Return(&domain.User{ID: 1, PasswordHash: "hashed_password"}, nil)
				m.hashService.EXPECT().ComparePassword("hashed_password", "password123").Return(false)
			},
			expectErr: true,
		},
		{
			name: "Database error",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").
					Return(nil, errors.New("db error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			user, err := service.Authenticate(context.Background(), "ada@example.com", "password123")
			if tt.expectErr {
				assert.EqualError(t, err, "invalid credentials")
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, user.ID)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	t.Run("Token issued", func(t *testing.T) {
		service, m := NewMock(t)
		m.jwtService.EXPECT().GenerateJWT(1, gomock.AssignableToTypeOf(time.Time{})).
			Return("signed.jwt.token", nil)

		token, err := service.GenerateToken(1)
		assert.NoError(t, err)
		assert.Equal(t, "signed.jwt.token", token)
	})

	t.Run("Signing error", func(t *testing.T) {
		service, m := NewMock(t)
		m.jwtService.EXPECT().GenerateJWT(1, gomock.AssignableToTypeOf(time.Time{})).
			Return("", errors.New("sign error"))

		token, err := service.GenerateToken(1)
		assert.Error(t, err)
		assert.Empty(t, token)
	})
}
