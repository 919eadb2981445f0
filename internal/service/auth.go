package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dazuba/feature-votes/internal/apierrors"
	"github.com/dazuba/feature-votes/internal/logger"
	"github.com/dazuba/feature-votes/internal/model"
)

// Auth implements user registration and login on top of the user store,
// the password hasher and the token service.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register creates a new user. Username and email must be unused; the
// password is stored only as a bcrypt digest.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	a.logger.Debug("Auth service: registering user",
		"username", params.Username)

	if err := validateRegisterParams(params); err != nil {
		return model.User{}, err
	}

	_, err := a.userStore.GetByUsername(ctx, params.Username)
	if err == nil {
		a.logger.Info("Auth service: username already registered",
			"username", params.Username)
		return model.User{}, apierrors.NewErrUserExists(params.Username)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	_, err = a.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: email already registered",
			"username", params.Username)
		return model.User{}, apierrors.NewErrEmailExists(params.Email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	digest, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		ID:             uuid.New(),
		Username:       params.Username,
		Email:          params.Email,
		HashedPassword: digest,
	})
	if err != nil {
		// Concurrent registration may lose the race past the pre-checks.
		if errors.Is(err, model.ErrUsernameTaken) {
			return model.User{}, apierrors.NewErrUserExists(params.Username)
		}
		if errors.Is(err, model.ErrEmailTaken) {
			return model.User{}, apierrors.NewErrEmailExists(params.Email)
		}
		a.logger.Error("Auth service: failed to create user",
			"username", params.Username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"username", user.Username,
		"user_id", user.ID)

	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown username and
// wrong password are deliberately the same failure.
func (a *Auth) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	a.logger.Debug("Auth service: logging in user",
		"username", username)

	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if !a.hasher.Verify(password, user.HashedPassword) {
		a.logger.Info("Auth service: password verification failed",
			"username", username)
		return model.TokenPair{}, apierrors.NewErrInvalidCredentials()
	}

	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"username", username,
		"user_id", user.ID)

	return pair, nil
}

func validateRegisterParams(params model.RegisterParams) error {
	if strings.TrimSpace(params.Username) == "" {
		return apierrors.NewErrValidation("username is required")
	}
	if !strings.Contains(params.Email, "@") {
		return apierrors.NewErrValidation("a valid email is required")
	}
	if params.Password == "" {
		return apierrors.NewErrValidation("password is required")
	}
	return nil
}
