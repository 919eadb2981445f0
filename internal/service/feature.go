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

// Feature implements feature proposals, the vote ledger and ranking.
// Every returned feature is decorated with its current tally; tallies are
// recomputed from the ledger on every call, never cached.
type Feature struct {
	featureStore model.FeatureStore
	voteStore    model.VoteStore
	userStore    model.UserStore
	logger       *logger.Logger
}

func NewFeature(
	featureStore model.FeatureStore,
	voteStore model.VoteStore,
	userStore model.UserStore,
	logger *logger.Logger,
) *Feature {
	return &Feature{
		featureStore: featureStore,
		voteStore:    voteStore,
		userStore:    userStore,
		logger:       logger,
	}
}

// Create persists a new feature owned by params.OwnerID.
func (s *Feature) Create(ctx context.Context, params model.CreateFeatureParams) (model.FeatureTally, error) {
	if strings.TrimSpace(params.Title) == "" {
		return model.FeatureTally{}, apierrors.NewErrValidation("title is required")
	}

	_, err := s.userStore.GetByID(ctx, params.OwnerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.FeatureTally{}, apierrors.NewErrInvalidAuthorizationToken()
	}
	if err != nil {
		return model.FeatureTally{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	feature, err := s.featureStore.Create(ctx, model.Feature{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		OwnerID:     params.OwnerID,
	})
	if err != nil {
		s.logger.Error("Feature service: failed to create feature",
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.FeatureTally{}, fmt.Errorf("failed to create feature: %w", err)
	}

	s.logger.Info("Feature service: feature created",
		"feature_id", feature.ID,
		"owner_id", feature.OwnerID)

	// A fresh feature has no votes yet.
	return model.FeatureTally{Feature: feature, Tally: 0}, nil
}

// Get returns a feature with its tally.
func (s *Feature) Get(ctx context.Context, id uuid.UUID) (model.FeatureTally, error) {
	feature, err := s.featureStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.FeatureTally{}, apierrors.NewErrFeatureNotFound()
	}
	if err != nil {
		return model.FeatureTally{}, fmt.Errorf("failed to get feature by id: %w", err)
	}

	return s.decorate(ctx, feature)
}

// List returns features in insertion order with their tallies.
func (s *Feature) List(ctx context.Context, skip, limit int) ([]model.FeatureTally, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}

	features, err := s.featureStore.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}

	return features, nil
}

// Top returns up to limit features ranked by tally descending.
func (s *Feature) Top(ctx context.Context, limit int) ([]model.FeatureTally, error) {
	if limit <= 0 {
		limit = 10
	}

	features, err := s.featureStore.ListTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top features: %w", err)
	}

	return features, nil
}

// Update applies the patch when actorID owns the feature. An absent
// feature and someone else's feature produce the identical error.
func (s *Feature) Update(ctx context.Context, id, actorID uuid.UUID, patch model.FeaturePatch) (model.FeatureTally, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.FeatureTally{}, apierrors.NewErrValidation("title must not be empty")
	}

	feature, err := s.featureStore.UpdateOwned(ctx, id, actorID, patch)
	if errors.Is(err, model.ErrNotFound) {
		return model.FeatureTally{}, apierrors.NewErrFeatureNotFoundOrForbidden()
	}
	if err != nil {
		return model.FeatureTally{}, fmt.Errorf("failed to update feature: %w", err)
	}

	s.logger.Info("Feature service: feature updated",
		"feature_id", id,
		"actor_id", actorID)

	return s.decorate(ctx, feature)
}

// Delete removes the feature and cascades its votes when actorID owns it;
// the same merged error hides whether the feature existed at all.
func (s *Feature) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	err := s.featureStore.DeleteOwned(ctx, id, actorID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrFeatureNotFoundOrForbidden()
	}
	if err != nil {
		return fmt.Errorf("failed to delete feature: %w", err)
	}

	s.logger.Info("Feature service: feature deleted",
		"feature_id", id,
		"actor_id", actorID)

	return nil
}

// CastVote records userID's vote on a feature. The value is validated
// before any storage access; a repeated vote overwrites the previous one.
// Owners may vote on their own features.
func (s *Feature) CastVote(ctx context.Context, featureID, userID uuid.UUID, value int) (model.Vote, error) {
	if !model.ValidVoteValue(value) {
		return model.Vote{}, apierrors.NewErrInvalidVoteValue()
	}

	_, err := s.featureStore.GetByID(ctx, featureID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Vote{}, apierrors.NewErrFeatureNotFound()
	}
	if err != nil {
		return model.Vote{}, fmt.Errorf("failed to get feature by id: %w", err)
	}

	vote, err := s.voteStore.Upsert(ctx, model.Vote{
		ID:        uuid.New(),
		Value:     value,
		FeatureID: featureID,
		UserID:    userID,
	})
	// The feature can disappear between the existence check and the
	// upsert; that race reads the same as voting on an absent feature.
	if errors.Is(err, model.ErrNotFound) {
		return model.Vote{}, apierrors.NewErrFeatureNotFound()
	}
	if err != nil {
		s.logger.Error("Feature service: failed to cast vote",
			"feature_id", featureID,
			"user_id", userID,
			"error", err.Error())
		return model.Vote{}, fmt.Errorf("failed to cast vote: %w", err)
	}

	s.logger.Info("Feature service: vote cast",
		"feature_id", featureID,
		"user_id", userID,
		"value", value)

	return vote, nil
}

// UserVote returns the vote userID holds on a feature, if any.
func (s *Feature) UserVote(ctx context.Context, featureID, userID uuid.UUID) (model.Vote, error) {
	vote, err := s.voteStore.GetByFeatureAndUser(ctx, featureID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Vote{}, apierrors.NewErrVoteNotFound()
	}
	if err != nil {
		return model.Vote{}, fmt.Errorf("failed to get vote: %w", err)
	}

	return vote, nil
}

func (s *Feature) decorate(ctx context.Context, feature model.Feature) (model.FeatureTally, error) {
	tally, err := s.voteStore.Tally(ctx, feature.ID)
	if err != nil {
		return model.FeatureTally{}, fmt.Errorf("failed to tally votes: %w", err)
	}

	return model.FeatureTally{Feature: feature, Tally: tally}, nil
}
