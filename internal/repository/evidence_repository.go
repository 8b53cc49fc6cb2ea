package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/resolution-service/internal/domain"
)

// EvidenceRepository stores opaque evidence references attached at submission.
type EvidenceRepository interface {
	Create(ctx context.Context, evidence *domain.Evidence) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.Evidence, error)
}

type evidenceRepository struct {
	pool *pgxpool.Pool
}

// NewEvidenceRepository builds repository.
func NewEvidenceRepository(pool *pgxpool.Pool) EvidenceRepository {
	return &evidenceRepository{pool: pool}
}

func (r *evidenceRepository) Create(ctx context.Context, evidence *domain.Evidence) error {
	const query = `
        INSERT INTO complaint_evidence (complaint_id, image_url, caption)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		evidence.ComplaintID,
		evidence.ImageURL,
		evidence.Caption,
	).Scan(&evidence.ID, &evidence.CreatedAt)
}

func (r *evidenceRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.Evidence, error) {
	const query = `
        SELECT id, complaint_id, image_url, caption, created_at
        FROM complaint_evidence WHERE complaint_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Evidence
	for rows.Next() {
		var evidence domain.Evidence
		if err := rows.Scan(
			&evidence.ID,
			&evidence.ComplaintID,
			&evidence.ImageURL,
			&evidence.Caption,
			&evidence.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, evidence)
	}
	return result, rows.Err()
}
