package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/testutil"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

func newService(t *testing.T) (user.UserService, user.UserRepository) {
	testutil.InitAuth(t)
	db := testutil.NewDB(t, &user.User{})
	repo := user.NewRepository(db)
	return user.NewService(repo, nil), repo
}

func seedEmployee(t *testing.T, svc user.UserService, nik, name string) *user.UserResponse {
	resp, err := svc.CreateEmployee(context.Background(), user.CreateEmployeeDTO{
		NIK:        nik,
		Name:       name,
		Department: "Operations",
	})
	require.NoError(t, err)
	return resp
}

func register(t *testing.T, svc user.UserService, nik, password string) *user.UserResponse {
	ctx := context.Background()
	verified, err := svc.VerifyNIK(ctx, user.VerifyNIKDTO{NIK: nik})
	require.NoError(t, err)

	resp, err := svc.Register(ctx, user.RegisterDTO{
		ClaimToken:           verified.ClaimToken,
		Password:             password,
		PasswordConfirmation: password,
	})
	require.NoError(t, err)
	return resp
}

func TestRegistrationFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	seedEmployee(t, svc, "3201001", "Sari Wulandari")

	t.Run("UnknownNIK", func(t *testing.T) {
		_, err := svc.VerifyNIK(ctx, user.VerifyNIKDTO{NIK: "9999999"})
		assert.ErrorIs(t, err, user.ErrEmployeeNotFound)
	})

	t.Run("LoginBeforeRegistration", func(t *testing.T) {
		_, err := svc.Login(ctx, user.LoginDTO{Login: "3201001", Password: "whatever1"})
		assert.ErrorIs(t, err, user.ErrNotRegistered)
	})

	t.Run("VerifyReturnsEmployee", func(t *testing.T) {
		resp, err := svc.VerifyNIK(ctx, user.VerifyNIKDTO{NIK: " 3201001 "})
		require.NoError(t, err)
		assert.Equal(t, "Sari Wulandari", resp.Name)
		assert.NotEmpty(t, resp.ClaimToken)
	})

	var claimToken string
	t.Run("Register", func(t *testing.T) {
		verified, err := svc.VerifyNIK(ctx, user.VerifyNIKDTO{NIK: "3201001"})
		require.NoError(t, err)
		claimToken = verified.ClaimToken

		resp, err := svc.Register(ctx, user.RegisterDTO{
			ClaimToken:           claimToken,
			Password:             "s3cretpass",
			PasswordConfirmation: "s3cretpass",
		})
		require.NoError(t, err)
		assert.True(t, resp.Registered)
		assert.NotNil(t, resp.RegisteredAt)
	})

	t.Run("SecondClaimRejected", func(t *testing.T) {
		_, err := svc.VerifyNIK(ctx, user.VerifyNIKDTO{NIK: "3201001"})
		assert.ErrorIs(t, err, user.ErrNIKAlreadyClaimed)

		_, err = svc.Register(ctx, user.RegisterDTO{
			ClaimToken:           claimToken,
			Password:             "anotherpass",
			PasswordConfirmation: "anotherpass",
		})
		assert.ErrorIs(t, err, user.ErrNIKAlreadyClaimed)
	})

	t.Run("Login", func(t *testing.T) {
		resp, err := svc.Login(ctx, user.LoginDTO{Login: "3201001", Password: "s3cretpass"})
		require.NoError(t, err)

		claims, err := auth.ValidateJWT(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID.String(), claims.UserID)
		assert.Equal(t, auth.RoleUser, claims.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, user.LoginDTO{Login: "3201001", Password: "wrongpass"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("SessionTokenCannotRegister", func(t *testing.T) {
		session, err := svc.Login(ctx, user.LoginDTO{Login: "3201001", Password: "s3cretpass"})
		require.NoError(t, err)
		_, err = svc.Register(ctx, user.RegisterDTO{
			ClaimToken:           session.Token,
			Password:             "s3cretpass",
			PasswordConfirmation: "s3cretpass",
		})
		assert.ErrorIs(t, err, user.ErrInvalidClaimToken)
	})
}

func TestAdministration(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	admin := seedEmployee(t, svc, "1000", "Admin")
	require.NoError(t, repo.UpdateRole(ctx, admin.ID, user.RoleAdmin))
	actor := auth.Actor{UserID: admin.ID.String(), Role: auth.RoleAdmin}

	learner := seedEmployee(t, svc, "2000", "Budi")

	t.Run("DuplicateNIK", func(t *testing.T) {
		_, err := svc.CreateEmployee(ctx, user.CreateEmployeeDTO{NIK: "2000", Name: "Other"})
		assert.ErrorIs(t, err, user.ErrNIKTaken)
	})

	t.Run("ChangeRole", func(t *testing.T) {
		resp, err := svc.ChangeRole(ctx, actor, learner.ID.String(), user.ChangeRoleDTO{Role: user.RoleTrainer})
		require.NoError(t, err)
		assert.Equal(t, user.RoleTrainer, resp.Role)
	})

	t.Run("CannotDemoteSelf", func(t *testing.T) {
		_, err := svc.ChangeRole(ctx, actor, admin.ID.String(), user.ChangeRoleDTO{Role: user.RoleUser})
		assert.ErrorIs(t, err, user.ErrSelfModification)
	})

	t.Run("ListFiltersByRole", func(t *testing.T) {
		resp, err := svc.ListUsers(ctx, user.ListFilter{Role: user.RoleTrainer})
		require.NoError(t, err)
		require.Len(t, resp.Users, 1)
		assert.Equal(t, "Budi", resp.Users[0].Name)
		assert.Equal(t, 20, resp.Limit)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, actor, learner.ID.String()))
		assert.ErrorIs(t, svc.DeleteUser(ctx, actor, learner.ID.String()), user.ErrUserNotFound)
	})
}

func TestLearnerXP(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	a := seedEmployee(t, svc, "1", "A")
	b := seedEmployee(t, svc, "2", "B")
	seedEmployee(t, svc, "3", "Not registered")
	register(t, svc, "1", "password1")
	register(t, svc, "2", "password2")

	require.NoError(t, repo.AddXP(ctx, a.ID, 30))
	require.NoError(t, repo.AddXP(ctx, a.ID, 12))
	require.NoError(t, repo.AddXP(ctx, b.ID, 5))

	entries, err := repo.ListLearnerXP(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	xp := map[string]int{}
	for _, e := range entries {
		xp[e.UserID.String()] = e.XP
	}
	assert.Equal(t, 42, xp[a.ID.String()])
	assert.Equal(t, 5, xp[b.ID.String()])
	assert.Less(t, entries[0].UserID.String(), entries[1].UserID.String())
}
