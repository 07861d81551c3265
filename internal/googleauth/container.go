package googleauth

import (
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

type GoogleAuthContainer struct {
	Service GoogleAuthService
	Handler *Handler
}

func NewGoogleAuthContainer(userRepo user.UserRepository, sessions user.UserService) *GoogleAuthContainer {
	clientID := config.Env("GOOGLE_CLIENT_ID", "")
	clientSecret := config.Env("GOOGLE_CLIENT_SECRET", "")
	redirectURL := config.Env("GOOGLE_REDIRECT_URL", "")

	var provider IdentityProvider
	if clientID != "" && clientSecret != "" {
		provider = NewGoogleProvider(clientID, clientSecret, redirectURL)
	} else {
		config.Logger.Warn("GOOGLE_CLIENT_ID not set, google sign-in disabled")
	}

	service := NewService(provider, userRepo, sessions)
	return &GoogleAuthContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
