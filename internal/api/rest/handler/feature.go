package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dazuba/feature-votes/internal/apierrors"
	"github.com/dazuba/feature-votes/internal/logger"
	"github.com/dazuba/feature-votes/internal/model"
)

// FeatureService defines feature proposal and vote operations.
type FeatureService interface {
	Create(ctx context.Context, params model.CreateFeatureParams) (model.FeatureTally, error)
	Get(ctx context.Context, id uuid.UUID) (model.FeatureTally, error)
	List(ctx context.Context, skip, limit int) ([]model.FeatureTally, error)
	Top(ctx context.Context, limit int) ([]model.FeatureTally, error)
	Update(ctx context.Context, id, actorID uuid.UUID, patch model.FeaturePatch) (model.FeatureTally, error)
	Delete(ctx context.Context, id, actorID uuid.UUID) error
	CastVote(ctx context.Context, featureID, userID uuid.UUID, value int) (model.Vote, error)
	UserVote(ctx context.Context, featureID, userID uuid.UUID) (model.Vote, error)
}

// Feature handles HTTP endpoints for feature proposals and votes.
type Feature struct {
	featureService FeatureService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewFeature creates a new Feature handler.
func NewFeature(featureService FeatureService, contextManager model.ContextManager, logger *logger.Logger) *Feature {
	return &Feature{
		featureService: featureService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type createFeatureRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateFeatureRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type castVoteRequest struct {
	Value int `json:"value"`
}

// FeatureResponse is the public view of a feature with its tally.
type FeatureResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	VoteCount   int64     `json:"vote_count"`
}

// VoteResponse is the public view of a vote.
type VoteResponse struct {
	ID        string `json:"id"`
	FeatureID string `json:"feature_id"`
	UserID    string `json:"user_id"`
	Value     int    `json:"value"`
}

// Create persists a new feature owned by the caller.
func (h *Feature) Create(c echo.Context) error {
	actorID, err := h.actor(c)
	if err != nil {
		return err
	}

	var req createFeatureRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.NewErrValidation("invalid request body")
	}

	h.logger.Debug("Feature handler: processing create request",
		"owner_id", actorID)

	feature, err := h.featureService.Create(c.Request().Context(), model.CreateFeatureParams{
		OwnerID:     actorID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("Feature handler: create failed",
			"owner_id", actorID,
			"error", err.Error())
		return err
	}

	return c.JSON(http.StatusCreated, featureResponse(feature))
}

// Get returns one feature with its tally.
func (h *Feature) Get(c echo.Context) error {
	id, err := featureID(c, apierrors.NewErrFeatureNotFound())
	if err != nil {
		return err
	}

	feature, err := h.featureService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, featureResponse(feature))
}

// List returns features in insertion order.
func (h *Feature) List(c echo.Context) error {
	skip := intQuery(c, "skip", 0)
	limit := intQuery(c, "limit", 100)

	features, err := h.featureService.List(c.Request().Context(), skip, limit)
	if err != nil {
		h.logger.Error("Feature handler: list failed",
			"error", err.Error())
		return err
	}

	return c.JSON(http.StatusOK, featureResponses(features))
}

// Top returns features ranked by net tally.
func (h *Feature) Top(c echo.Context) error {
	limit := intQuery(c, "limit", 10)

	features, err := h.featureService.Top(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Feature handler: top failed",
			"error", err.Error())
		return err
	}

	return c.JSON(http.StatusOK, featureResponses(features))
}

// Update patches a feature owned by the caller.
func (h *Feature) Update(c echo.Context) error {
	actorID, err := h.actor(c)
	if err != nil {
		return err
	}

	id, err := featureID(c, apierrors.NewErrFeatureNotFoundOrForbidden())
	if err != nil {
		return err
	}

	var req updateFeatureRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.NewErrValidation("invalid request body")
	}

	feature, err := h.featureService.Update(c.Request().Context(), id, actorID, model.FeaturePatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("Feature handler: update failed",
			"feature_id", id,
			"actor_id", actorID,
			"error", err.Error())
		return err
	}

	h.logger.Info("Feature handler: update completed",
		"feature_id", id,
		"actor_id", actorID)

	return c.JSON(http.StatusOK, featureResponse(feature))
}

// Delete removes a feature owned by the caller.
func (h *Feature) Delete(c echo.Context) error {
	actorID, err := h.actor(c)
	if err != nil {
		return err
	}

	id, err := featureID(c, apierrors.NewErrFeatureNotFoundOrForbidden())
	if err != nil {
		return err
	}

	if err := h.featureService.Delete(c.Request().Context(), id, actorID); err != nil {
		h.logger.Error("Feature handler: delete failed",
			"feature_id", id,
			"actor_id", actorID,
			"error", err.Error())
		return err
	}

	h.logger.Info("Feature handler: delete completed",
		"feature_id", id,
		"actor_id", actorID)

	return c.NoContent(http.StatusNoContent)
}

// CastVote records the caller's vote on a feature.
func (h *Feature) CastVote(c echo.Context) error {
	actorID, err := h.actor(c)
	if err != nil {
		return err
	}

	id, err := featureID(c, apierrors.NewErrFeatureNotFound())
	if err != nil {
		return err
	}

	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.NewErrValidation("invalid request body")
	}

	vote, err := h.featureService.CastVote(c.Request().Context(), id, actorID, req.Value)
	if err != nil {
		h.logger.Error("Feature handler: cast vote failed",
			"feature_id", id,
			"user_id", actorID,
			"error", err.Error())
		return err
	}

	return c.JSON(http.StatusOK, voteResponse(vote))
}

// UserVote returns the caller's vote on a feature.
func (h *Feature) UserVote(c echo.Context) error {
	actorID, err := h.actor(c)
	if err != nil {
		return err
	}

	id, err := featureID(c, apierrors.NewErrFeatureNotFound())
	if err != nil {
		return err
	}

	vote, err := h.featureService.UserVote(c.Request().Context(), id, actorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, voteResponse(vote))
}

func (h *Feature) actor(c echo.Context) (uuid.UUID, error) {
	actorID, ok := h.contextManager.GetUserID(c.Request().Context())
	if !ok {
		return uuid.Nil, apierrors.NewErrMissingAuthorizationToken()
	}
	return actorID, nil
}

// featureID parses the :id path parameter. A malformed ID is reported the
// same as an absent feature, so probing IDs reveals nothing.
func featureID(c echo.Context, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func intQuery(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func featureResponse(f model.FeatureTally) FeatureResponse {
	return FeatureResponse{
		ID:          f.Feature.ID.String(),
		Title:       f.Feature.Title,
		Description: f.Feature.Description,
		OwnerID:     f.Feature.OwnerID.String(),
		CreatedAt:   f.Feature.CreatedAt,
		VoteCount:   f.Tally,
	}
}

func featureResponses(features []model.FeatureTally) []FeatureResponse {
	out := make([]FeatureResponse, 0, len(features))
	for _, f := range features {
		out = append(out, featureResponse(f))
	}
	return out
}

func voteResponse(v model.Vote) VoteResponse {
	return VoteResponse{
		ID:        v.ID.String(),
		FeatureID: v.FeatureID.String(),
		UserID:    v.UserID.String(),
		Value:     v.Value,
	}
}
