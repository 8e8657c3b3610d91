package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/verdora/plantmarket/internal/hash"
	"github.com/verdora/plantmarket/internal/logging"
	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/mykafka"
	"github.com/verdora/plantmarket/internal/repo"
	"github.com/verdora/plantmarket/internal/service/token"
	"github.com/verdora/plantmarket/internal/transport"
)

type AuthHTTP struct {
	Repo     *repo.GormRepo
	Tokens   *token.TokenService
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		l.Warn("register_error", "status", 400, "reason", "missing fields")
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "username and password required"})
	}

	if _, err := h.Repo.GetUserByUsername(ctx, req.Username); err == nil {
		l.Warn("register_error", "status", 409, "reason", "user exists")
		return c.JSON(http.StatusConflict, transport.ErrorResponse{Message: "user already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal error"})
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal error"})
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal error"})
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, user.ID, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	user, err := h.Repo.GetUserByUsername(ctx, req.Username)
	if err != nil || !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Message: "invalid username or password"})
	}

	access, err := h.Tokens.SignAccessToken(user.ID, user.Role)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal error"})
	}
	refresh, err := h.Tokens.SignRefreshToken(ctx, user.ID, user.Role)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal error"})
	}

	c.SetCookie(token.CreateCookie("accessToken", access, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie("refreshToken", refresh, "/", time.Now().Add(token.RefreshTTL)))

	publish(c, h.Producer, mykafka.TopicUserEvents, user.ID, map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"is_admin":      user.Role == "admin",
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		l.Warn("logout_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "missing refresh cookie"})
	}

	if err := h.Repo.RevokeRefreshToken(ctx, refreshCookie.Value); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal error"})
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", expired))

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
