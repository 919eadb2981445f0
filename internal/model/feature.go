package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FeatureStore defines persistence operations for feature proposals.
//
// UpdateOwned and DeleteOwned carry the ownership predicate into the
// statement itself: a missing feature and a feature owned by someone else
// both come back as ErrNotFound, so callers cannot tell them apart.
type FeatureStore interface {
	Create(ctx context.Context, feature Feature) (Feature, error)
	GetByID(ctx context.Context, id uuid.UUID) (Feature, error)
	List(ctx context.Context, skip, limit int) ([]FeatureTally, error)
	ListTop(ctx context.Context, limit int) ([]FeatureTally, error)
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch FeaturePatch) (Feature, error)
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

// Feature represents a feature proposal. OwnerID is immutable after
// creation.
type Feature struct {
	ID          uuid.UUID
	Title       string
	Description string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
}

// FeaturePatch contains optional feature mutations; nil means unchanged.
type FeaturePatch struct {
	Title       *string
	Description *string
}

// FeatureTally pairs a feature with its net vote tally.
type FeatureTally struct {
	Feature Feature
	Tally   int64
}

// CreateFeatureParams contains parameters to create a feature.
type CreateFeatureParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
}
