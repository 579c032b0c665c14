package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/campushub-api/internal/schedule"
	"github.com/campushub/campushub-api/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommitmentRepository reads a person's occupied time ranges across both
// subsystems. Used for plain (non-transactional) conflict previews; the
// write repositories run the same query inside their transactions.
type CommitmentRepository struct {
	pool *pgxpool.Pool
}

// NewCommitmentRepository creates a new commitment repository
func NewCommitmentRepository(pool *pgxpool.Pool) *CommitmentRepository {
	return &CommitmentRepository{pool: pool}
}

// FindActiveCommitments returns the person's candidate commitments
func (r *CommitmentRepository) FindActiveCommitments(ctx context.Context, personID int64) ([]schedule.Commitment, error) {
	start := time.Now()
	operation := "findActiveCommitments"

	commitments, err := findActiveCommitments(ctx, r.pool, personID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query commitments: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return commitments, nil
}
