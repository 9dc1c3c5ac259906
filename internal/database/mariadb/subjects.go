package mariadb

import (
	"context"
	"fmt"
)

// Subject is a person known to PhotoPrism.
type Subject struct {
	UID        string
	Name       string
	PhotoCount int
	Favorite   bool
}

// ListSubjects returns PhotoPrism's person subjects, excluding hidden
// and deleted ones, ordered by name.
func (p *Pool) ListSubjects(ctx context.Context) ([]Subject, error) {
	query := `
		SELECT subj_uid, subj_name, photo_count, subj_favorite
		FROM subjects
		WHERE subj_type = 'person'
		AND subj_hidden = 0
		AND deleted_at IS NULL
		ORDER BY subj_name
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.UID, &s.Name, &s.PhotoCount, &s.Favorite); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return subjects, nil
}

// CountSubjects returns the number of person subjects.
func (p *Pool) CountSubjects(ctx context.Context) (int, error) {
	var count int
	err := p.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM subjects WHERE subj_type = 'person' AND subj_hidden = 0 AND deleted_at IS NULL",
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return count, nil
}
