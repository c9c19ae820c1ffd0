package videos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mini-rec/backend/internal/models"
)

// Repository handles recording persistence. Every owner-scoped statement
// carries the owner in its WHERE clause so ownership is enforced by the
// database, not filtered after the fact.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a recordings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new recording and fills in the store-assigned id and
// created_at.
func (r *Repository) Create(ctx context.Context, rec *models.Recording) error {
	const q = `INSERT INTO recordings (id, user_uid, filename, s3_key)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, rec.UserUID, rec.Filename, rec.S3Key).
		Scan(&rec.ID, &rec.CreatedAt)
}

// ListByOwner returns all recordings for a user, newest first (id as
// tiebreak so the order is stable per call).
func (r *Repository) ListByOwner(ctx context.Context, owner string) ([]models.Recording, error) {
	const q = `SELECT id, user_uid, filename, s3_key, created_at
		FROM recordings WHERE user_uid = $1 ORDER BY created_at DESC, id`
	rows, err := r.pool.Query(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Recording
	for rows.Next() {
		var rec models.Recording
		if err := rows.Scan(&rec.ID, &rec.UserUID, &rec.Filename, &rec.S3Key, &rec.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// GetOwned returns the recording only if it belongs to owner; otherwise
// (nil, nil), indistinguishable from a record that does not exist.
func (r *Repository) GetOwned(ctx context.Context, id uuid.UUID, owner string) (*models.Recording, error) {
	const q = `SELECT id, user_uid, filename, s3_key, created_at
		FROM recordings WHERE id = $1 AND user_uid = $2`
	var rec models.Recording
	err := r.pool.QueryRow(ctx, q, id, owner).Scan(&rec.ID, &rec.UserUID, &rec.Filename, &rec.S3Key, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Rename updates the filename of an owned recording in a single atomic
// statement and returns the updated row, or (nil, nil) when the record
// is absent or owned by someone else.
func (r *Repository) Rename(ctx context.Context, id uuid.UUID, owner, filename string) (*models.Recording, error) {
	const q = `UPDATE recordings SET filename = $1 WHERE id = $2 AND user_uid = $3
		RETURNING id, user_uid, filename, s3_key, created_at`
	var rec models.Recording
	err := r.pool.QueryRow(ctx, q, filename, id, owner).Scan(&rec.ID, &rec.UserUID, &rec.Filename, &rec.S3Key, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Delete removes an owned recording row. Returns false when nothing
// matched (absent or not owned).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID, owner string) (bool, error) {
	const q = `DELETE FROM recordings WHERE id = $1 AND user_uid = $2`
	tag, err := r.pool.Exec(ctx, q, id, owner)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
