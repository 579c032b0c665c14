package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PersonRepository resolves mentor/tutor role ids to persons
type PersonRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

// PersonIDForMentor returns the person owning an active mentor role
func (r *PersonRepository) PersonIDForMentor(ctx context.Context, mentorID int64) (int64, error) {
	return r.personIDFor(ctx, "personIDForMentor", "SELECT person_id FROM mentors WHERE id = $1 AND active", mentorID, "mentor")
}

// PersonIDForTutor returns the person owning an active tutor role
func (r *PersonRepository) PersonIDForTutor(ctx context.Context, tutorID int64) (int64, error) {
	return r.personIDFor(ctx, "personIDForTutor", "SELECT person_id FROM tutors WHERE id = $1 AND active", tutorID, "tutor")
}

func (r *PersonRepository) personIDFor(ctx context.Context, operation, query string, roleID int64, resource string) (int64, error) {
	start := time.Now()

	var personID int64
	err := r.pool.QueryRow(ctx, query, roleID).Scan(&personID)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return 0, apperrors.NotFoundError(resource)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return 0, err
	}

	recordMetrics(operation, "success", duration)
	return personID, nil
}
