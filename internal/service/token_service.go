package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dazuba/feature-votes/internal/logger"
	"github.com/dazuba/feature-votes/internal/model"
)

// TokenService issues, refreshes and revokes token pairs. It composes the
// TokenManager and the RefreshTokenStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

// Kept in sync with the token manager; used only for the persisted
// expiry, cryptographic validity is checked against the JWT claims.
const refreshTTL = 14 * 24 * time.Hour

// Issue creates a new access/refresh pair and persists the refresh side.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	rt := model.RefreshToken{
		ID:        uuid.New(),
		JTI:       jti,
		UserID:    userID,
		TokenHash: hashRefresh(refresh),
		ExpiresAt: time.Now().Add(refreshTTL),
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return model.TokenPair{}, fmt.Errorf("persist refresh: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (model.TokenPair, error) {
	userID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, model.ErrTokenInvalid
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("get refresh record: %w", err)
	}

	if err := validateRefreshRecord(rt, hashRefresh(presentedRefresh), time.Now()); err != nil {
		return model.TokenPair{}, err
	}

	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return model.TokenPair{}, fmt.Errorf("revoke old refresh: %w", err)
	}

	s.logger.Debug("Token service: refresh token rotated",
		"user_id", userID)

	return s.Issue(ctx, userID)
}

// RevokeByToken revokes the refresh token presented, if valid.
func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}
	return s.store.RevokeByJTI(ctx, jti)
}

// RevokeAllForUser revokes every outstanding refresh token for a user.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

// GetUserID resolves the principal behind an access token.
func (s *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(token)
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRefreshRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1 {
		return model.ErrTokenMismatch
	}
	return nil
}
