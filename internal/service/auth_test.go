package service

import (
	"context"
	"testing"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(username string) *model.RegisterRequest {
	return &model.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  username,
		Password:  "s3cret-pass",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	auth := NewAuthService(users)
	ctx := context.Background()

	registered, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ada", registered.User.Username)
	assert.Equal(t, model.RoleCustomer, registered.User.Role)
	assert.Equal(t, "Ada Lovelace", registered.User.Name)

	loggedIn, err := auth.Login(ctx, "ada", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(NewUserService(db))
	ctx := context.Background()

	_, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerRequest("ada"))
	require.ErrorIs(t, err, ErrAccountExists)
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(NewUserService(db))
	ctx := context.Background()

	_, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	// Wrong password and unknown username produce the exact same error.
	_, wrongPass := auth.Login(ctx, "ada", "not-the-password")
	_, unknownUser := auth.Login(ctx, "nobody", "s3cret-pass")

	require.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknownUser.Error())
}

func TestValidateToken_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(NewUserService(db))
	ctx := context.Background()

	registered, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	identity, err := auth.ValidateToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, identity.ID)
	assert.Equal(t, "ada", identity.Username)
	assert.Equal(t, model.RoleCustomer, identity.Role)
}

func TestValidateToken_Garbage(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(NewUserService(db))

	_, err := auth.ValidateToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSigningKey(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(NewUserService(db))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.JWTClaims{UserID: "x"})
	signed, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, &CreateUserRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Username:  "grace",
		Password:  "plaintext-pw",
		Role:      model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext-pw", created.Password)

	validated, err := users.ValidatePassword(ctx, "grace", "plaintext-pw")
	require.NoError(t, err)
	assert.Equal(t, created.ID, validated.ID)

	_, err = users.ValidatePassword(ctx, "grace", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)

	_, err := users.GetUserByID(context.Background(), "missing-id")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestPublicProfile_HasNoPassword(t *testing.T) {
	user := &model.User{
		ID:        "u1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Password:  "$2a$10$hash",
		Role:      model.RoleCustomer,
	}

	profile := user.Public()
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Equal(t, "ada", profile.Username)
	// PublicProfile has no password field; nothing to strip at runtime.
}
