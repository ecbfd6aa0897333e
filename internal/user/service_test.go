package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billed/internal/user"
)

func TestService_CreateAndLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	tokens := user.NewTokens("secret", time.Hour)
	svc := user.NewService(repo, tokens)

	var stored *user.User

	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			stored = u
			return nil
		})

	created, err := svc.Create(context.Background(), user.CreateParams{
		Email:    " Employee@Test.tld ",
		Password: "employee",
		Type:     user.TypeEmployee,
	})
	require.NoError(t, err)
	assert.Equal(t, "employee@test.tld", created.Email)
	assert.NotEqual(t, "employee", created.PasswordHash)

	repo.EXPECT().GetUser(gomock.Any(), "employee@test.tld").Return(stored, nil).Times(2)

	u, token, err := svc.Login(context.Background(), "employee@test.tld", "employee")
	require.NoError(t, err)
	assert.Equal(t, user.TypeEmployee, u.Type)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "employee@test.tld", claims.Email)
	assert.Equal(t, user.TypeEmployee, claims.Type)

	_, _, err = svc.Login(context.Background(), "employee@test.tld", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo, user.NewTokens("secret", time.Hour))

	repo.EXPECT().GetUser(gomock.Any(), "nobody@test.tld").Return(nil, user.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "nobody@test.tld", "x")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestService_Create_InvalidType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := user.NewService(user.NewMockRepository(ctrl), user.NewTokens("secret", time.Hour))

	_, err := svc.Create(context.Background(), user.CreateParams{Email: "a@a", Password: "x", Type: "Guest"})
	assert.Error(t, err)
}

func TestTokens_Parse(t *testing.T) {
	tokens := user.NewTokens("secret", time.Hour)

	token, err := tokens.Issue(&user.User{Email: "admin@test.tld", Type: user.TypeAdmin})
	require.NoError(t, err)

	_, err = user.NewTokens("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	expired, err := user.NewTokens("secret", -time.Minute).Issue(&user.User{Email: "admin@test.tld", Type: user.TypeAdmin})
	require.NoError(t, err)

	_, err = tokens.Parse(expired)
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Parse(none)
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}
