package service

import (
	"context"
	"testing"
	"time"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/testutil"
	"foodgram-go/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, blacklist TokenBlacklist) (*AuthService, *repository.UserRepository) {
	t.Helper()
	testutil.Config(t)
	userRepo := repository.NewUserRepository(testutil.NewDB(t))
	return NewAuthService(userRepo, blacklist), userRepo
}

func registerRequest(username string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "s3cret-pass",
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	auth, _ := newAuthService(t, nil)

	info, err := auth.Register(registerRequest("ann"))
	require.NoError(t, err)
	assert.Equal(t, "ann", info.Username)
	assert.Equal(t, "ann@example.com", info.Email)

	_, err = auth.Register(registerRequest("ann"))
	assert.ErrorIs(t, err, ErrEmailExists)

	other := registerRequest("ann")
	other.Email = "other@example.com"
	_, err = auth.Register(other)
	assert.ErrorIs(t, err, ErrUsernameExists)

	token, err := auth.Login(&dto.LoginRequest{Email: "ann@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, 3600, token.ExpiresIn)

	claims, err := utils.ParseToken(token.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)

	_, err = auth.Login(&dto.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = auth.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	blacklist := &fakeBlacklist{}
	auth, _ := newAuthService(t, blacklist)

	info, err := auth.Register(registerRequest("ann"))
	require.NoError(t, err)
	token, err := auth.Login(&dto.LoginRequest{Email: info.Email, Password: "s3cret-pass"})
	require.NoError(t, err)
	claims, err := utils.ParseToken(token.AuthToken)
	require.NoError(t, err)

	ctx := context.Background()
	revoked, err := auth.IsRevoked(ctx, claims)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, auth.Logout(ctx, claims))

	revoked, err = auth.IsRevoked(ctx, claims)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := blacklist.revoked[claims.ID]
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestAuthService_LogoutWithoutBlacklist(t *testing.T) {
	auth, _ := newAuthService(t, nil)
	claims := &utils.Claims{UserID: 1}
	require.NoError(t, auth.Logout(context.Background(), claims))

	revoked, err := auth.IsRevoked(context.Background(), claims)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_SetPassword(t *testing.T) {
	auth, _ := newAuthService(t, nil)
	info, err := auth.Register(registerRequest("ann"))
	require.NoError(t, err)

	err = auth.SetPassword(info.ID, &dto.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"})
	assert.Equal(t, "current_password", requireKind(t, err, KindValidation).Field)

	require.NoError(t, auth.SetPassword(info.ID, &dto.SetPasswordRequest{CurrentPassword: "s3cret-pass", NewPassword: "brand-new-pass"}))

	_, err = auth.Login(&dto.LoginRequest{Email: info.Email, Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = auth.Login(&dto.LoginRequest{Email: info.Email, Password: "brand-new-pass"})
	require.NoError(t, err)

	err = auth.SetPassword(9999, &dto.SetPasswordRequest{CurrentPassword: "x", NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ProfileAndList(t *testing.T) {
	testutil.Config(t)
	db := testutil.NewDB(t)
	users := NewUserService(repository.NewUserRepository(db), repository.NewSubscriptionRepository(db))
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	require.NoError(t, db.Create(&model.Subscription{UserID: alice.ID, AuthorID: bob.ID}).Error)

	profile, err := users.GetProfile(bob.ID, &alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)
	assert.Equal(t, "bob@example.com", profile.Email)

	profile, err = users.GetProfile(bob.ID, nil)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	_, err = users.GetProfile(9999, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)

	role, err := users.GetRole(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, role)

	list, err := users.List(&alice.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, int64(2), list.TotalPages)
	require.Len(t, list.Users, 1)
	assert.Equal(t, alice.ID, list.Users[0].ID)
	assert.False(t, list.Users[0].IsSubscribed)

	list, err = users.List(&alice.ID, 2, 1)
	require.NoError(t, err)
	require.Len(t, list.Users, 1)
	assert.True(t, list.Users[0].IsSubscribed)
}

func TestAuthService_RegisterRejectsBadUsername(t *testing.T) {
	auth, userRepo := newAuthService(t, nil)

	for _, name := range []string{"bad name", "semi;colon", "slash/name", "line\n"} {
		req := registerRequest("ann")
		req.Username = name
		_, err := auth.Register(req)
		svcErr := requireKind(t, err, KindValidation)
		assert.Equal(t, "username", svcErr.Field, name)
	}

	exists, err := userRepo.ExistsByEmail("ann@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	for _, name := range []string{"ann.cook", "a+b@c-d_e", "Анна"} {
		req := registerRequest("ann")
		req.Username = name
		req.Email = name + "@example.com"
		_, err := auth.Register(req)
		assert.NoError(t, err, name)
	}
}

func TestAuthService_RegistrationConflictNamesField(t *testing.T) {
	auth, _ := newAuthService(t, nil)
	_, err := auth.Register(registerRequest("ann"))
	require.NoError(t, err)

	assert.ErrorIs(t, auth.registrationConflict("ann@example.com", "someone"), ErrEmailExists)
	assert.ErrorIs(t, auth.registrationConflict("other@example.com", "ann"), ErrUsernameExists)
	assert.ErrorIs(t, auth.registrationConflict("ann@example.com", "ann"), ErrEmailExists)
	assert.NoError(t, auth.registrationConflict("other@example.com", "someone"))
}
