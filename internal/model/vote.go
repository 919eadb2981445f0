package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Vote weights: exactly one of these per (feature, user) pair.
const (
	VoteUp   = 1
	VoteDown = -1
)

// VoteStore defines persistence operations for the vote ledger.
type VoteStore interface {
	// Upsert inserts a vote, or overwrites the value of the existing vote
	// for the same (feature, user) pair. The returned vote keeps the
	// identity of the first vote ever cast for the pair.
	Upsert(ctx context.Context, vote Vote) (Vote, error)
	Tally(ctx context.Context, featureID uuid.UUID) (int64, error)
	GetByFeatureAndUser(ctx context.Context, featureID, userID uuid.UUID) (Vote, error)
}

// Vote is a single user's signed weight on a feature.
type Vote struct {
	ID        uuid.UUID
	Value     int
	FeatureID uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidVoteValue reports whether v is an allowed vote weight.
func ValidVoteValue(v int) bool {
	return v == VoteUp || v == VoteDown
}
