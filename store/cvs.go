package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ByLCY/vitae/cv"
)

// CV is a stored CV together with its ownership metadata.
type CV struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Document  *cv.Document
}

const cvColumns = `id, user_id, created_at, updated_at, title, template,
	personal_info, education, experience, skills, additional_info`

func scanCV(row pgx.Row) (*CV, error) {
	var r cvRow
	err := row.Scan(&r.ID, &r.UserID, &r.CreatedAt, &r.UpdatedAt, &r.Title, &r.Template,
		&r.PersonalInfo, &r.Education, &r.Experience, &r.Skills, &r.AdditionalInfo)
	if err != nil {
		return nil, err
	}
	return r.toCV()
}

// GetCV loads one CV owned by userID.
func (s *Store) GetCV(ctx context.Context, id, userID uuid.UUID) (*CV, error) {
	c, err := scanCV(s.pool.QueryRow(ctx,
		`SELECT `+cvColumns+` FROM cvs WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}
	return c, nil
}

// ListCVs returns the user's CVs, newest first.
func (s *Store) ListCVs(ctx context.Context, userID uuid.UUID) ([]*CV, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+cvColumns+` FROM cvs WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cvs: %w", err)
	}
	defer rows.Close()

	var out []*CV
	for rows.Next() {
		c, err := scanCV(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cv: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cvs: %w", err)
	}
	return out, nil
}

// CreateCV inserts a new CV and returns its ID
func (s *Store) CreateCV(ctx context.Context, userID uuid.UUID, doc *cv.Document) (uuid.UUID, error) {
	r, err := rowFromDocument(doc)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO cvs (id, user_id, title, template, personal_info, education, experience, skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, userID, r.Title, r.Template, r.PersonalInfo, r.Education, r.Experience, r.Skills,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create cv: %w", err)
	}
	return id, nil
}

// UpdateCV replaces the content of an existing CV.
func (s *Store) UpdateCV(ctx context.Context, id, userID uuid.UUID, doc *cv.Document) error {
	r, err := rowFromDocument(doc)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE cvs SET title = $3, template = $4, personal_info = $5, education = $6,
		 experience = $7, skills = $8, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		id, userID, r.Title, r.Template, r.PersonalInfo, r.Education, r.Experience, r.Skills,
	)
	if err != nil {
		return fmt.Errorf("failed to update cv: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCV removes a CV.
func (s *Store) DeleteCV(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cvs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cv: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
