package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

// PersonRepository provides PostgreSQL-backed people storage.
type PersonRepository struct {
	pool *Pool
}

// NewPersonRepository creates a new PostgreSQL person repository.
func NewPersonRepository(pool *Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

const personColumns = "id, first_name, last_name, notes, is_active, created_at, updated_at"

// GetPerson retrieves a person by ID.
func (r *PersonRepository) GetPerson(ctx context.Context, id int64) (*database.Person, error) {
	query := "SELECT " + personColumns + " FROM people WHERE id = $1"

	var p database.Person
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query person: %w", err)
	}
	return &p, nil
}

// ListPeople returns all active people. The ordering feeds the gallery
// bulk load and must stay stable across calls.
func (r *PersonRepository) ListPeople(ctx context.Context) ([]database.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE is_active
		ORDER BY last_name, first_name, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	return scanPeople(rows)
}

// SearchPeople returns active people whose name matches the term.
// Comparison uses the same normalization as recognizer.NormalizePersonName
// so "jiri" finds "Jiří".
func (r *PersonRepository) SearchPeople(ctx context.Context, term string) ([]database.Person, error) {
	normalized := recognizer.NormalizePersonName(term)

	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE is_active
		AND LOWER(REPLACE(unaccent(last_name || ' ' || first_name), '-', ' ')) LIKE '%' || $1 || '%'
		ORDER BY last_name, first_name, id
	`

	rows, err := r.pool.Query(ctx, query, normalized)
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	defer rows.Close()

	return scanPeople(rows)
}

// CountPeople returns the number of active people.
func (r *PersonRepository) CountPeople(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM people WHERE is_active").Scan(&count); err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return count, nil
}

// AddPerson inserts a person and returns the assigned ID.
func (r *PersonRepository) AddPerson(ctx context.Context, p *database.Person) (int64, error) {
	query := `
		INSERT INTO people (first_name, last_name, notes, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query, p.FirstName, p.LastName, p.Notes).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}
	return id, nil
}

// UpdatePerson updates an existing person.
func (r *PersonRepository) UpdatePerson(ctx context.Context, p *database.Person) error {
	query := `
		UPDATE people SET
			first_name = $1,
			last_name = $2,
			notes = $3,
			updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, p.FirstName, p.LastName, p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// DeletePerson soft-deletes a person. Photos and vectors stay in place.
func (r *PersonRepository) DeletePerson(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE people SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active", id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func scanPeople(rows *sql.Rows) ([]database.Person, error) {
	var people []database.Person
	for rows.Next() {
		var p database.Person
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return people, nil
}

// Verify interface compliance.
var _ database.PersonWriter = (*PersonRepository)(nil)
