// Package context carries the authenticated principal through request
// contexts.
package context

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const userIDKey ctxKey = iota

// Manager implements model.ContextManager over context values.
type Manager struct{}

// NewManager creates a context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserID returns a context carrying userID.
func (m *Manager) SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the principal stored in ctx, if any.
func (m *Manager) GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
