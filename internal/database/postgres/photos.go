package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/facevec"
)

// PhotoRepository provides PostgreSQL-backed photo and vector storage.
// Vectors live in a pgvector column; the repository translates between
// the engine's raw little-endian float32 serialization and the column
// type at the boundary.
type PhotoRepository struct {
	pool *Pool
}

// NewPhotoRepository creates a new PostgreSQL photo repository.
func NewPhotoRepository(pool *Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

const photoColumns = "id, person_id, format, is_primary, embedding IS NOT NULL, created_at"

// GetPhoto retrieves photo metadata by ID.
func (r *PhotoRepository) GetPhoto(ctx context.Context, photoID int64) (*database.Photo, error) {
	query := "SELECT " + photoColumns + " FROM person_photos WHERE id = $1"

	var p database.Photo
	err := r.pool.QueryRow(ctx, query, photoID).Scan(
		&p.ID, &p.PersonID, &p.Format, &p.IsPrimary, &p.HasVector, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query photo: %w", err)
	}
	return &p, nil
}

// ListPhotos returns a person's photos primary-first, then newest-first.
// The ordering feeds the gallery bulk load and must stay stable.
func (r *PhotoRepository) ListPhotos(ctx context.Context, personID int64) ([]database.Photo, error) {
	query := `
		SELECT ` + photoColumns + `
		FROM person_photos
		WHERE person_id = $1
		ORDER BY is_primary DESC, created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	var photos []database.Photo
	for rows.Next() {
		var p database.Photo
		if err := rows.Scan(&p.ID, &p.PersonID, &p.Format, &p.IsPrimary, &p.HasVector, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return photos, nil
}

// GetPhotoData returns the raw image bytes for a photo.
func (r *PhotoRepository) GetPhotoData(ctx context.Context, photoID int64) ([]byte, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, "SELECT image_data FROM person_photos WHERE id = $1", photoID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query photo data: %w", err)
	}
	return data, nil
}

// LoadVector returns the stored feature vector as raw little-endian
// float32 bytes, or nil when no vector is stored.
func (r *PhotoRepository) LoadVector(ctx context.Context, photoID int64) ([]byte, error) {
	var vec *pgvector.Vector
	err := r.pool.QueryRow(ctx, "SELECT embedding FROM person_photos WHERE id = $1", photoID).Scan(&vec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query vector: %w", err)
	}
	if vec == nil {
		return nil, nil
	}
	return facevec.Encode(vec.Slice()), nil
}

// SaveVector stores the serialized feature vector for a photo.
func (r *PhotoRepository) SaveVector(ctx context.Context, photoID int64, data []byte) error {
	vector, err := facevec.Decode(data)
	if err != nil {
		return fmt.Errorf("invalid vector data: %w", err)
	}

	result, err := r.pool.Exec(ctx,
		"UPDATE person_photos SET embedding = $1::vector WHERE id = $2",
		pgvector.NewVector(vector), photoID)
	if err != nil {
		return fmt.Errorf("save vector: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// FindSimilar returns the photos whose stored vectors are nearest to the
// query by cosine distance, closest first.
func (r *PhotoRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]database.VectorMatch, error) {
	query := `
		SELECT id, person_id, embedding <=> $1::vector AS distance
		FROM person_photos
		WHERE embedding IS NOT NULL
		ORDER BY distance
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("query similar photos: %w", err)
	}
	defer rows.Close()

	var matches []database.VectorMatch
	for rows.Next() {
		var m database.VectorMatch
		if err := rows.Scan(&m.PhotoID, &m.PersonID, &m.Distance); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}

// CountPhotos returns the total number of photos stored.
func (r *PhotoRepository) CountPhotos(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM person_photos").Scan(&count); err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return count, nil
}

// CountVectors returns the number of photos with a stored vector.
func (r *PhotoRepository) CountVectors(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM person_photos WHERE embedding IS NOT NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count vectors: %w", err)
	}
	return count, nil
}

// AddPhoto stores an image for a person and returns the photo ID.
func (r *PhotoRepository) AddPhoto(
	ctx context.Context, personID int64, data []byte, format string, isPrimary bool,
) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if isPrimary {
		if _, err := tx.ExecContext(ctx,
			"UPDATE person_photos SET is_primary = FALSE WHERE person_id = $1", personID); err != nil {
			return 0, fmt.Errorf("clear primary flag: %w", err)
		}
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO person_photos (person_id, image_data, format, is_primary)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, personID, data, format, isPrimary).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert photo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// DeletePhoto removes a photo and its vector.
func (r *PhotoRepository) DeletePhoto(ctx context.Context, photoID int64) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM person_photos WHERE id = $1", photoID)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// SetPrimaryPhoto marks a photo as its person's primary photo.
func (r *PhotoRepository) SetPrimaryPhoto(ctx context.Context, photoID int64) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var personID int64
	err = tx.QueryRowContext(ctx, "SELECT person_id FROM person_photos WHERE id = $1", photoID).Scan(&personID)
	if errors.Is(err, sql.ErrNoRows) {
		return database.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query photo owner: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE person_photos SET is_primary = (id = $1) WHERE person_id = $2", photoID, personID); err != nil {
		return fmt.Errorf("set primary photo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Verify interface compliance.
var _ database.PhotoWriter = (*PhotoRepository)(nil)
