package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushub/campushub-api/internal/models"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tutorAvailabilityColumns = `id, tutor_id, day_of_week, start_minutes, end_minutes,
	       recurring, active, created_at, updated_at`

// AvailabilityRepository handles tutor availability slot data access
type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

// NewAvailabilityRepository creates a new availability repository
func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// Create persists a new availability slot
func (r *AvailabilityRepository) Create(ctx context.Context, slot *models.TutorAvailability) error {
	start := time.Now()
	operation := "createTutorAvailability"

	query := `
		INSERT INTO tutor_availability (tutor_id, day_of_week, start_minutes, end_minutes, recurring, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		slot.TutorID,
		slot.DayOfWeek,
		int(slot.StartTime),
		int(slot.EndTime),
		slot.Recurring,
		slot.Active,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to create availability slot: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// Update rewrites a slot's schedule and active flag
func (r *AvailabilityRepository) Update(ctx context.Context, slot *models.TutorAvailability) error {
	start := time.Now()
	operation := "updateTutorAvailability"

	query := `
		UPDATE tutor_availability
		SET day_of_week = $1, start_minutes = $2, end_minutes = $3, active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		slot.DayOfWeek,
		int(slot.StartTime),
		int(slot.EndTime),
		slot.Active,
		slot.ID,
	).Scan(&slot.UpdatedAt)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("availability slot")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to update availability slot: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// GetByID fetches a single availability slot
func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*models.TutorAvailability, error) {
	start := time.Now()
	operation := "getTutorAvailabilityByID"

	query := fmt.Sprintf("SELECT %s FROM tutor_availability WHERE id = $1", tutorAvailabilityColumns)

	slot, err := models.ScanTutorAvailability(r.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("availability slot")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return slot, nil
}

// ListByTutor fetches a tutor's availability slots ordered by weekday and
// start time
func (r *AvailabilityRepository) ListByTutor(ctx context.Context, tutorID int64, activeOnly bool) ([]*models.TutorAvailability, error) {
	start := time.Now()
	operation := "listTutorAvailability"

	query := fmt.Sprintf(`
		SELECT %s
		FROM tutor_availability
		WHERE tutor_id = $1 AND ($2 = false OR active)
		ORDER BY day_of_week ASC, start_minutes ASC
	`, tutorAvailabilityColumns)

	rows, err := r.pool.Query(ctx, query, tutorID, activeOnly)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query availability slots: %w", err)
	}

	slots, err := models.ScanTutorAvailabilities(rows)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return slots, nil
}
