package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager attaches the authenticated principal to a request context
// and retrieves it back.
type ContextManager interface {
	SetUserID(ctx context.Context, userID uuid.UUID) context.Context
	GetUserID(ctx context.Context) (uuid.UUID, bool)
}
