package googleauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrEmailNotVerified = errors.New("google account e-mail is not verified")

// Identity is what a successful code exchange tells us about the caller.
type Identity struct {
	Email        string
	AccessToken  string
	RefreshToken string
}

type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type googleProvider struct {
	oauthConfig *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) IdentityProvider {
	return &googleProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{oauth2api.OpenIDScope, oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) AuthURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	srv, err := oauth2api.NewService(ctx, option.WithHTTPClient(p.oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, err
	}
	info, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if info.VerifiedEmail == nil || !*info.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}

	return &Identity{
		Email:        info.Email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}
