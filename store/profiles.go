package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ByLCY/vitae/cv"
)

// GetProfile loads the user's profile.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*cv.Profile, error) {
	var r profileRow
	err := s.pool.QueryRow(ctx,
		`SELECT full_name, professional_title, summary, skills, experience, education
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&r.FullName, &r.ProfessionalTitle, &r.Summary, &r.Skills, &r.Experience, &r.Education)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return r.toProfile()
}

// UpsertProfile creates or replaces the user's profile.
func (s *Store) UpsertProfile(ctx context.Context, userID uuid.UUID, p *cv.Profile) error {
	r, err := rowFromProfile(p)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, full_name, professional_title, summary, skills, experience, education)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET full_name = $2, professional_title = $3, summary = $4,
		 skills = $5, experience = $6, education = $7, updated_at = NOW()`,
		userID, r.FullName, r.ProfessionalTitle, r.Summary, r.Skills, r.Experience, r.Education,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
