package googleauth_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/googleauth"
	"github.com/saulo-duarte/learnhub-lambda/internal/testutil"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

type stubProvider struct {
	identity *googleauth.Identity
	err      error
}

func (p *stubProvider) AuthURL(state string) string {
	return "https://accounts.example.test/auth?state=" + state
}

func (p *stubProvider) Exchange(ctx context.Context, code string) (*googleauth.Identity, error) {
	return p.identity, p.err
}

func setup(t *testing.T, provider googleauth.IdentityProvider) (googleauth.GoogleAuthService, user.UserRepository, user.UserService) {
	testutil.InitAuth(t)
	os.Setenv("CRYPTO_KEY", "01234567890123456789012345678901")
	config.InitCrypto()

	db := testutil.NewDB(t, &user.User{})
	repo := user.NewRepository(db)
	users := user.NewService(repo, nil)
	return googleauth.NewService(provider, repo, users), repo, users
}

func seedRegistered(t *testing.T, users user.UserService, nik, email string) {
	ctx := context.Background()
	_, err := users.CreateEmployee(ctx, user.CreateEmployeeDTO{NIK: nik, Name: "Google User", Department: "Ops"})
	require.NoError(t, err)

	verified, err := users.VerifyNIK(ctx, user.VerifyNIKDTO{NIK: nik})
	require.NoError(t, err)
	_, err = users.Register(ctx, user.RegisterDTO{
		ClaimToken:           verified.ClaimToken,
		Email:                &email,
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	require.NoError(t, err)
}

func TestLoginIssuesSessionAndStoresTokens(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{identity: &googleauth.Identity{
		Email:        "learner@example.test",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}}
	svc, repo, users := setup(t, provider)
	seedRegistered(t, users, "4100001", "learner@example.test")

	resp, err := svc.Login(ctx, "code")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := auth.ValidateJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)

	stored, err := repo.GetByEmail(ctx, "learner@example.test")
	require.NoError(t, err)
	assert.NotEqual(t, "access-1", stored.EncryptedGoogleAccessToken)
	plain, err := config.Decrypt(stored.EncryptedGoogleAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access-1", plain)
}

func TestLoginRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownEmail", func(t *testing.T) {
		svc, _, _ := setup(t, &stubProvider{identity: &googleauth.Identity{Email: "stranger@example.test", AccessToken: "a"}})
		_, err := svc.Login(ctx, "code")
		assert.ErrorIs(t, err, googleauth.ErrUnknownAccount)
	})

	t.Run("ExchangeFailure", func(t *testing.T) {
		svc, _, _ := setup(t, &stubProvider{err: errors.New("bad code")})
		_, err := svc.Login(ctx, "code")
		assert.ErrorIs(t, err, googleauth.ErrExchangeFailed)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		svc, _, _ := setup(t, nil)
		_, err := svc.Login(ctx, "code")
		assert.ErrorIs(t, err, googleauth.ErrNotConfigured)
		_, err = svc.AuthURL(ctx)
		assert.ErrorIs(t, err, googleauth.ErrNotConfigured)
	})
}

func TestAuthURLCarriesState(t *testing.T) {
	svc, _, _ := setup(t, &stubProvider{})
	resp, err := svc.AuthURL(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.State)
	assert.Contains(t, resp.URL, resp.State)
}
