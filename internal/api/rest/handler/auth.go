package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dazuba/feature-votes/internal/apierrors"
	"github.com/dazuba/feature-votes/internal/logger"
	"github.com/dazuba/feature-votes/internal/model"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, username, password string) (model.TokenPair, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService  AuthService
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Register creates a new user account.
func (h *Auth) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.NewErrValidation("invalid request body")
	}

	h.logger.Debug("Auth handler: processing register request",
		"username", req.Username)

	user, err := h.authService.Register(c.Request().Context(), model.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error("Auth handler: register failed",
			"username", req.Username,
			"error", err.Error())
		return err
	}

	h.logger.Info("Auth handler: register completed",
		"username", user.Username,
		"user_id", user.ID)

	return c.JSON(http.StatusCreated, UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login verifies credentials and returns a token pair.
func (h *Auth) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.NewErrValidation("invalid request body")
	}

	h.logger.Debug("Auth handler: processing login request",
		"username", req.Username)

	pair, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"username", req.Username,
			"error", err.Error())
		return err
	}

	h.logger.Info("Auth handler: login completed",
		"username", req.Username)

	return c.JSON(http.StatusOK, tokenResponse(pair))
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Auth) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.NewErrValidation("invalid request body")
	}
	if req.RefreshToken == "" {
		return apierrors.NewErrValidation("refresh_token is required")
	}

	h.logger.Debug("Auth handler: processing token refresh request")

	pair, err := h.tokenService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed",
			"error", err.Error())
		return err
	}

	h.logger.Info("Auth handler: token refresh completed")

	return c.JSON(http.StatusOK, tokenResponse(pair))
}

// Logout revokes a refresh token.
func (h *Auth) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.NewErrValidation("invalid request body")
	}
	if req.RefreshToken == "" {
		return apierrors.NewErrValidation("refresh_token is required")
	}

	h.logger.Debug("Auth handler: processing logout request")

	if err := h.tokenService.RevokeByToken(c.Request().Context(), req.RefreshToken); err != nil {
		h.logger.Error("Auth handler: logout failed",
			"error", err.Error())
		return err
	}

	h.logger.Info("Auth handler: logout completed")

	return c.NoContent(http.StatusNoContent)
}

func tokenResponse(pair model.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}
