// Package repository persists quote requests to Postgres.
package repository

import (
	"context"

	"hashlife_backend/internal/submission"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateQuoteRequest inserts one captured lead and returns its id.
func (r *Repository) CreateQuoteRequest(ctx context.Context, req submission.QuoteRequest) (uuid.UUID, error) {
	var id uuid.UUID
	query := `
		INSERT INTO quote_requests (
			first_name, last_name, email, phone, insurance_type, gender,
			smoker, birth_year, birth_month, birth_day, coverage_level,
			score, quality, source, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		req.FirstName,
		req.LastName,
		req.Email,
		req.Phone,
		req.InsuranceType,
		req.Gender,
		req.Smoker,
		req.BirthYear,
		req.BirthMonth,
		req.BirthDay,
		req.CoverageLevel,
		req.Score,
		req.Quality,
		req.Source,
		req.CreatedAt,
	).Scan(&id)
	return id, err
}

// CountByQuality returns per-quality lead counts for the monitoring surface.
func (r *Repository) CountByQuality(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT quality, COUNT(*)
		FROM quote_requests
		GROUP BY quality
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var quality string
		var count int
		if err := rows.Scan(&quality, &count); err != nil {
			return nil, err
		}
		counts[quality] = count
	}
	return counts, rows.Err()
}
