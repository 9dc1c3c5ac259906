package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/kaleidoid/internal/database"
)

// SessionRepository logs recognition sessions in PostgreSQL.
type SessionRepository struct {
	pool *Pool
}

// NewSessionRepository creates a new PostgreSQL session repository.
func NewSessionRepository(pool *Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// AddSession records one above-threshold recognition. Assigns a UID when
// the caller did not provide one.
func (r *SessionRepository) AddSession(ctx context.Context, s *database.RecognitionSession) error {
	if s.UID == "" {
		s.UID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO recognition_sessions (uid, person_id, score, camera_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.pool.Exec(ctx, query, s.UID, s.PersonID, s.Score, s.CameraID, s.CreatedAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SessionStats aggregates sessions per person over the last N days,
// most sessions first.
func (r *SessionRepository) SessionStats(ctx context.Context, days int) ([]database.PersonStats, error) {
	query := `
		SELECT s.person_id,
		       TRIM(p.last_name || ' ' || p.first_name),
		       COUNT(*),
		       AVG(s.score),
		       MAX(s.created_at)
		FROM recognition_sessions s
		JOIN people p ON p.id = s.person_id
		WHERE s.created_at > NOW() - ($1 || ' days')::interval
		GROUP BY s.person_id, p.last_name, p.first_name
		ORDER BY COUNT(*) DESC, s.person_id
	`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("query session stats: %w", err)
	}
	defer rows.Close()

	var stats []database.PersonStats
	for rows.Next() {
		var s database.PersonStats
		if err := rows.Scan(&s.PersonID, &s.DisplayName, &s.Sessions, &s.AvgScore, &s.LastSeen); err != nil {
			return nil, fmt.Errorf("scan session stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session stats: %w", err)
	}
	return stats, nil
}

// CountSessions returns the total number of logged sessions.
func (r *SessionRepository) CountSessions(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM recognition_sessions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// CleanupSessions deletes sessions older than the given number of days.
func (r *SessionRepository) CleanupSessions(ctx context.Context, olderThanDays int) (int64, error) {
	result, err := r.pool.Exec(ctx,
		"DELETE FROM recognition_sessions WHERE created_at < NOW() - ($1 || ' days')::interval", olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions rows affected: %w", err)
	}
	return n, nil
}

// Verify interface compliance.
var _ database.SessionWriter = (*SessionRepository)(nil)
