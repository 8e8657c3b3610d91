package httpserver

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdora/plantmarket/internal/hash"
	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/repo"
	"github.com/verdora/plantmarket/internal/service/token"
)

func newAuthHandler(r *repo.GormRepo) *AuthHTTP {
	return &AuthHTTP{
		Repo: r,
		Tokens: &token.TokenService{
			Repo:          r,
			JWTSecret:     []byte("test-access-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
	}
}

func TestRegister(t *testing.T) {
	r := newTestRepo(t)
	h := newAuthHandler(r)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/register",
		`{"username":"greenthumb","password":"hunter22"}`, 0, "")
	require.NoError(t, h.Register(c))
	requireStatus(t, rec, http.StatusCreated)

	var user models.User
	decodeBody(t, rec, &user)
	require.Equal(t, "greenthumb", user.Username)
	require.Equal(t, "user", user.Role)

	stored, err := r.GetUserByUsername(c.Request().Context(), "greenthumb")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", stored.PasswordHash, "password must be hashed")
	require.True(t, hash.CheckPassword(stored.PasswordHash, "hunter22"))
}

func TestRegister_Duplicate(t *testing.T) {
	r := newTestRepo(t)
	h := newAuthHandler(r)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/register",
		`{"username":"greenthumb","password":"hunter22"}`, 0, "")
	require.NoError(t, h.Register(c))
	requireStatus(t, rec, http.StatusCreated)

	c, rec = newJSONContext(t, http.MethodPost, "/api/v1/register",
		`{"username":"greenthumb","password":"other"}`, 0, "")
	require.NoError(t, h.Register(c))
	requireStatus(t, rec, http.StatusConflict)
}

func TestRegister_MissingFields(t *testing.T) {
	r := newTestRepo(t)
	h := newAuthHandler(r)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/register",
		`{"username":"nopassword"}`, 0, "")
	require.NoError(t, h.Register(c))
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	r := newTestRepo(t)
	h := newAuthHandler(r)

	pwHash, err := hash.HashPassword("hunter22")
	require.NoError(t, err)
	require.NoError(t, r.DB.Create(&models.User{
		Username:     "greenthumb",
		PasswordHash: pwHash,
		Role:         "user",
	}).Error)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/login",
		`{"username":"greenthumb","password":"hunter22"}`, 0, "")
	require.NoError(t, h.Login(c))
	requireStatus(t, rec, http.StatusOK)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp["access_token"])
	require.NotEmpty(t, resp["refresh_token"])
	require.Equal(t, false, resp["is_admin"])

	cookies := rec.Result().Cookies()
	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
		require.True(t, ck.HttpOnly, "auth cookies must be http-only")
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newTestRepo(t)
	h := newAuthHandler(r)

	pwHash, err := hash.HashPassword("hunter22")
	require.NoError(t, err)
	require.NoError(t, r.DB.Create(&models.User{
		Username:     "greenthumb",
		PasswordHash: pwHash,
		Role:         "user",
	}).Error)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/login",
		`{"username":"greenthumb","password":"wrong"}`, 0, "")
	require.NoError(t, h.Login(c))
	requireStatus(t, rec, http.StatusUnauthorized)

	c, rec = newJSONContext(t, http.MethodPost, "/api/v1/login",
		`{"username":"nobody","password":"hunter22"}`, 0, "")
	require.NoError(t, h.Login(c))
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	r := newTestRepo(t)
	h := newAuthHandler(r)

	refresh, err := h.Tokens.SignRefreshToken(context.Background(), 1, "user")
	require.NoError(t, err)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/logout", "", 0, "")
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	require.NoError(t, h.Logout(c))
	requireStatus(t, rec, http.StatusOK)

	stored, err := r.GetRefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	require.True(t, stored.Revoked)
}

func TestLogout_MissingCookie(t *testing.T) {
	r := newTestRepo(t)
	h := newAuthHandler(r)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/logout", "", 0, "")
	require.NoError(t, h.Logout(c))
	requireStatus(t, rec, http.StatusBadRequest)
}
