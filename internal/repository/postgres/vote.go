package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dazuba/feature-votes/internal/model"
)

var _ model.VoteStore = (*VoteRepository)(nil)

type VoteRepository struct {
	db *Connection
}

func NewVoteRepository(db *Connection) *VoteRepository {
	return &VoteRepository{
		db: db,
	}
}

// Upsert inserts the vote, or overwrites the existing one for the same
// (feature, user) pair. The unique constraint makes this safe under
// concurrent first-time voters: the loser of the insert race lands on the
// update path. RETURNING yields the surviving row, so a revote keeps the
// original vote id.
func (r *VoteRepository) Upsert(ctx context.Context, vote model.Vote) (model.Vote, error) {
	query := `
		INSERT INTO votes (id, value, feature_id, user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (feature_id, user_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING id, value, feature_id, user_id, created_at, updated_at`

	var saved model.Vote
	err := r.db.QueryRow(ctx, query,
		vote.ID, vote.Value, vote.FeatureID, vote.UserID,
	).Scan(
		&saved.ID, &saved.Value, &saved.FeatureID, &saved.UserID, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		// The feature may be deleted between the caller's existence check
		// and the insert; the FK turns that race into a plain miss.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" && pgErr.ConstraintName == "votes_feature_id_fkey" {
			return model.Vote{}, model.ErrNotFound
		}
		return model.Vote{}, fmt.Errorf("failed to upsert vote: %w", err)
	}

	return saved, nil
}

// Tally returns the sum of vote values for a feature; 0 when no votes exist.
func (r *VoteRepository) Tally(ctx context.Context, featureID uuid.UUID) (int64, error) {
	const query = `SELECT COALESCE(SUM(value), 0)::bigint FROM votes WHERE feature_id = $1`

	var tally int64
	if err := r.db.QueryRow(ctx, query, featureID).Scan(&tally); err != nil {
		return 0, fmt.Errorf("failed to tally votes: %w", err)
	}

	return tally, nil
}

func (r *VoteRepository) GetByFeatureAndUser(ctx context.Context, featureID, userID uuid.UUID) (model.Vote, error) {
	var vote model.Vote
	query := `SELECT id, value, feature_id, user_id, created_at, updated_at
			  FROM votes WHERE feature_id = $1 AND user_id = $2`

	err := r.db.QueryRow(ctx, query, featureID, userID).Scan(
		&vote.ID, &vote.Value, &vote.FeatureID, &vote.UserID, &vote.CreatedAt, &vote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Vote{}, model.ErrNotFound
		}
		return model.Vote{}, fmt.Errorf("failed to get vote: %w", err)
	}

	return vote, nil
}
