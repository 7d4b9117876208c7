package authservice

import (
	"context"
	"errors"
	"time"

	"github.com/sweeptrade/backend/internal/domain"
	userrepo "github.com/sweeptrade/backend/internal/repo/user-repo"
	"github.com/sweeptrade/backend/pkg/auth"
	"github.com/sweeptrade/backend/pkg/refcode"
	"go.uber.org/zap"
)

//go:generate mockgen -source=authservice.go -destination=authservice_mock.go -package=authservice

type Repo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type ReferralService interface {
	ResolveCode(ctx context.Context, code string) (*domain.User, error)
	ApplySignupBonus(ctx context.Context, referrerID int, referredName string) error
}

var ErrEmailTaken = errors.New("user already exists with this email")

const maxCodeAttempts = 3

type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Country      string
	Phone        string
	ReferralCode string
}

type Service struct {
	userRepo    Repo
	referral    ReferralService
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
}

func New(repo Repo, referral ReferralService, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		userRepo:    repo,
		referral:    referral,
		hashService: hashService,
		jwtService:  jwtService,
	}
}

// Register creates an account. An unknown referral code rejects the signup
// before anything is written; a valid one triggers the signup bonus cascade
// after the account exists.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("email", input.Email))
		return nil, ErrEmailTaken
	}

	var referrer *domain.User
	if input.ReferralCode != "" {
		referrer, err = s.referral.ResolveCode(ctx, input.ReferralCode)
		if err != nil {
			return nil, err
		}
	}

	hashedPassword, err := s.hashService.HashPassword(input.Password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Country:      input.Country,
		Phone:        input.Phone,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	// The referral code is unique per account; regenerate on collision. A
	// duplicate email is a concurrent signup that won the race, not a code
	// collision, so it ends the loop immediately.
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := refcode.Generate()
		if err != nil {
			return nil, err
		}
		user.ReferralCode = code

		_, err = s.userRepo.Create(ctx, user)
		if err == nil {
			break
		}
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			zap.L().Info("user already exists", zap.String("email", input.Email))
			return nil, ErrEmailTaken
		}
		if errors.Is(err, userrepo.ErrDuplicate) && attempt < maxCodeAttempts-1 {
			continue
		}
		zap.L().Error("can't create user: ", zap.Error(err))
		return nil, err
	}

	if referrer != nil {
		if err := s.referral.ApplySignupBonus(ctx, referrer.ID, user.FirstName); err != nil {
			zap.L().Error("signup bonus cascade failed", zap.Int("referrerID", referrer.ID), zap.Error(err))
		}
	}

	zap.L().Info("user successfully registered", zap.String("email", input.Email))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, errors.New("invalid credentials")
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, errors.New("invalid credentials")
	}
	zap.L().Info("user successfully authenticated", zap.String("email", email))
	return user, nil
}

func (s *Service) GenerateToken(userID int) (string, error) {
	expirationTime := time.Now().Add(time.Hour)

	token, err := s.jwtService.GenerateJWT(userID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
