package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dazuba/feature-votes/internal/model"
)

var _ model.FeatureStore = (*FeatureRepository)(nil)

type FeatureRepository struct {
	db *Connection
}

func NewFeatureRepository(db *Connection) *FeatureRepository {
	return &FeatureRepository{
		db: db,
	}
}

func (r *FeatureRepository) Create(ctx context.Context, feature model.Feature) (model.Feature, error) {
	query := `INSERT INTO features (id, title, description, owner_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, title, description, owner_id, created_at`

	var saved model.Feature
	err := r.db.QueryRow(ctx, query,
		feature.ID, feature.Title, feature.Description, feature.OwnerID,
	).Scan(
		&saved.ID, &saved.Title, &saved.Description, &saved.OwnerID, &saved.CreatedAt,
	)
	if err != nil {
		return model.Feature{}, fmt.Errorf("failed to create feature: %w", err)
	}

	return saved, nil
}

func (r *FeatureRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Feature, error) {
	var feature model.Feature
	query := `SELECT id, title, description, owner_id, created_at
			  FROM features WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&feature.ID, &feature.Title, &feature.Description, &feature.OwnerID, &feature.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Feature{}, model.ErrNotFound
		}
		return model.Feature{}, fmt.Errorf("failed to get feature by id: %w", err)
	}

	return feature, nil
}

// List returns features in insertion order, each paired with its tally.
func (r *FeatureRepository) List(ctx context.Context, skip, limit int) ([]model.FeatureTally, error) {
	query := `
		SELECT f.id, f.title, f.description, f.owner_id, f.created_at,
		       COALESCE(SUM(v.value), 0)::bigint AS tally
		FROM features f
		LEFT JOIN votes v ON v.feature_id = f.id
		GROUP BY f.id
		ORDER BY f.created_at ASC, f.id ASC
		OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	defer rows.Close()

	return scanFeatureTallies(rows)
}

// ListTop returns up to limit features ordered by tally descending.
// Features without votes count as tally 0. Ties order by created_at
// ascending, then id ascending, so the ranking is deterministic.
func (r *FeatureRepository) ListTop(ctx context.Context, limit int) ([]model.FeatureTally, error) {
	query := `
		SELECT f.id, f.title, f.description, f.owner_id, f.created_at,
		       COALESCE(SUM(v.value), 0)::bigint AS tally
		FROM features f
		LEFT JOIN votes v ON v.feature_id = f.id
		GROUP BY f.id
		ORDER BY tally DESC, f.created_at ASC, f.id ASC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top features: %w", err)
	}
	defer rows.Close()

	return scanFeatureTallies(rows)
}

// UpdateOwned applies the patch only when id exists and ownerID matches;
// both failure modes surface as ErrNotFound. The check and the write are
// one statement, so there is no read-check-write race.
func (r *FeatureRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch model.FeaturePatch) (model.Feature, error) {
	query := `
		UPDATE features
		SET title = COALESCE($3, title), description = COALESCE($4, description)
		WHERE id = $1 AND owner_id = $2
		RETURNING id, title, description, owner_id, created_at`

	var feature model.Feature
	err := r.db.QueryRow(ctx, query, id, ownerID, patch.Title, patch.Description).Scan(
		&feature.ID, &feature.Title, &feature.Description, &feature.OwnerID, &feature.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Feature{}, model.ErrNotFound
		}
		return model.Feature{}, fmt.Errorf("failed to update feature: %w", err)
	}

	return feature, nil
}

// DeleteOwned removes the feature and, through the schema's cascade, all of
// its votes in the same transaction. Absent and not-owned both return
// ErrNotFound.
func (r *FeatureRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	const query = `DELETE FROM features WHERE id = $1 AND owner_id = $2`

	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete feature: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanFeatureTallies(rows pgx.Rows) ([]model.FeatureTally, error) {
	var out []model.FeatureTally
	for rows.Next() {
		var ft model.FeatureTally
		err := rows.Scan(
			&ft.Feature.ID, &ft.Feature.Title, &ft.Feature.Description,
			&ft.Feature.OwnerID, &ft.Feature.CreatedAt, &ft.Tally,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, ft)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
