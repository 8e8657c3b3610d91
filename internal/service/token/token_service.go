package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/repo"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (t *TokenService) SignAccessToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(AccessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.JWTSecret)
}

func (t *TokenService) SignRefreshToken(ctx context.Context, userID uint, role string) (string, error) {
	exp := time.Now().Add(RefreshTTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"typ":  "refresh",
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.RefreshSecret)
	if err != nil {
		return "", err
	}

	stored := models.RefreshToken{
		Token:     raw,
		UserID:    userID,
		ExpiresAt: exp.Unix(),
	}
	if err := t.Repo.SaveRefreshToken(ctx, &stored); err != nil {
		return "", fmt.Errorf("save refresh token: %w", err)
	}
	return raw, nil
}

func parseHMAC(raw string, secret []byte) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(j *jwt.Token) (interface{}, error) {
		if _, ok := j.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", j.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	return claims, nil
}

func (t *TokenService) ValidateRefresh(ctx context.Context, raw string) (jwt.MapClaims, error) {
	claims, err := parseHMAC(raw, t.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, errors.New("not a refresh token")
	}

	stored, err := t.Repo.GetRefreshToken(ctx, raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}
	return claims, nil
}

// RotateToken exchanges a valid refresh token for a fresh access/refresh pair,
// revoking the old refresh token.
func (t *TokenService) RotateToken(ctx context.Context, raw string) (newAccess, newRefresh string, claims jwt.MapClaims, err error) {
	claims, err = t.ValidateRefresh(ctx, raw)
	if err != nil {
		return "", "", nil, err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	newAccess, err = t.SignAccessToken(userID, role)
	if err != nil {
		return "", "", nil, err
	}
	newRefresh, err = t.SignRefreshToken(ctx, userID, role)
	if err != nil {
		return "", "", nil, err
	}
	if err = t.Repo.RevokeRefreshToken(ctx, raw); err != nil {
		return "", "", nil, err
	}

	return newAccess, newRefresh, claims, nil
}

func setUserContext(c echo.Context, claims jwt.MapClaims) error {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return errors.New("invalid subject claim")
	}
	role, _ := claims["role"].(string)
	c.Set("userID", uint(sub))
	c.Set("role", role)
	return nil
}

// resolve authenticates the request from cookies, transparently rotating an
// expired access token when a live refresh token is present.
func (t *TokenService) resolve(c echo.Context) error {
	ctx := c.Request().Context()

	if ck, err := c.Cookie("accessToken"); err == nil && ck.Value != "" {
		claims, err := parseHMAC(ck.Value, t.JWTSecret)
		if err == nil {
			return setUserContext(c, claims)
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	rfCookie, err := c.Cookie("refreshToken")
	if err != nil || rfCookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}

	newAccess, newRefresh, claims, err := t.RotateToken(ctx, rfCookie.Value)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))
	return setUserContext(c, claims)
}

func (t *TokenService) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := t.resolve(c); err != nil {
			return err
		}
		return next(c)
	}
}

func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := t.resolve(c); err != nil {
			return err
		}
		if role, _ := c.Get("role").(string); role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}

// UserID reads the authenticated caller set by RequireLogin.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

func Role(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
