package googleauth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

var (
	ErrNotConfigured    = errors.New("google sign-in is not configured")
	ErrUnknownAccount   = errors.New("no registered account for this google e-mail")
	ErrExchangeFailed   = errors.New("failed to exchange google authorization code")
	ErrEncryptionFailed = errors.New("failed to encrypt user's google token")
)

type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type GoogleAuthService interface {
	AuthURL(ctx context.Context) (*AuthURLResponse, error)
	Login(ctx context.Context, code string) (*user.LoginResponse, error)
}

type googleAuthService struct {
	provider IdentityProvider
	userRepo user.UserRepository
	sessions user.UserService
}

// NewService accepts a nil provider; every call then fails with ErrNotConfigured.
func NewService(provider IdentityProvider, userRepo user.UserRepository, sessions user.UserService) GoogleAuthService {
	return &googleAuthService{provider: provider, userRepo: userRepo, sessions: sessions}
}

func (s *googleAuthService) AuthURL(ctx context.Context) (*AuthURLResponse, error) {
	if s.provider == nil {
		return nil, ErrNotConfigured
	}
	state := uuid.NewString()
	return &AuthURLResponse{URL: s.provider.AuthURL(state), State: state}, nil
}

func (s *googleAuthService) Login(ctx context.Context, code string) (*user.LoginResponse, error) {
	log := config.WithContext(ctx)
	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, ErrEmailNotVerified) {
			return nil, err
		}
		log.WithError(err).Warn("Google code exchange failed")
		return nil, ErrExchangeFailed
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			log.WithField("email", email).Warn("Google sign-in for unknown e-mail")
			return nil, ErrUnknownAccount
		}
		return nil, err
	}
	if !u.Registered {
		return nil, user.ErrNotRegistered
	}

	accessToken, err := config.Encrypt(identity.AccessToken)
	if err != nil {
		log.WithError(err).Error("Failed to encrypt access token")
		return nil, ErrEncryptionFailed
	}
	var refreshToken string
	if identity.RefreshToken != "" {
		if refreshToken, err = config.Encrypt(identity.RefreshToken); err != nil {
			log.WithError(err).Error("Failed to encrypt refresh token")
			return nil, ErrEncryptionFailed
		}
	}
	if err := s.userRepo.UpdateGoogleTokens(ctx, u.ID, accessToken, refreshToken); err != nil {
		log.WithError(err).Error("Failed to store google tokens")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User signed in with google")
	return s.sessions.IssueSession(ctx, u)
}
