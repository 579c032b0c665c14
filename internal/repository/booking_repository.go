package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/schedule"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tutoringBookingColumns = `id, tutor_id, availability_id, student_name, student_email,
	       booking_date, start_minutes, end_minutes, status, sessions_paid, sessions_completed,
	       created_at, updated_at`

// BookingRepository handles tutoring booking data access
type BookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateChecked inserts a booking once the conflict check passes, inside one
// transaction guarded by the tutor's person-level advisory lock
func (r *BookingRepository) CreateChecked(ctx context.Context, personID int64, booking *models.TutoringBooking, check ConflictCheck) error {
	start := time.Now()
	operation := "createTutoringBooking"

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockPerson(ctx, tx, personID); err != nil {
			return err
		}

		existing, err := findActiveCommitments(ctx, tx, personID)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		insert := `
			INSERT INTO tutoring_bookings
				(tutor_id, availability_id, student_name, student_email, booking_date,
				 start_minutes, end_minutes, status, sessions_paid)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, sessions_completed, created_at, updated_at
		`
		err = tx.QueryRow(ctx, insert,
			booking.TutorID,
			booking.AvailabilityID,
			booking.StudentName,
			booking.StudentEmail,
			booking.Date,
			int(booking.StartTime),
			int(booking.EndTime),
			booking.Status,
			booking.SessionsPaid,
		).Scan(&booking.ID, &booking.SessionsCompleted, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return mapWriteError(err)
		}

		return nil
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, writeStatus(err), duration)
		return err
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// RescheduleChecked moves a booking to a new occurrence after re-running the
// conflict check
func (r *BookingRepository) RescheduleChecked(ctx context.Context, personID int64, booking *models.TutoringBooking, check ConflictCheck) error {
	start := time.Now()
	operation := "rescheduleTutoringBooking"

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockPerson(ctx, tx, personID); err != nil {
			return err
		}

		existing, err := findActiveCommitments(ctx, tx, personID)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		update := `
			UPDATE tutoring_bookings
			SET booking_date = $1, start_minutes = $2, end_minutes = $3, updated_at = NOW()
			WHERE id = $4
			  AND status IN ('scheduled', 'confirmed')
			RETURNING updated_at
		`
		err = tx.QueryRow(ctx, update,
			booking.Date,
			int(booking.StartTime),
			int(booking.EndTime),
			booking.ID,
		).Scan(&booking.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundError("active tutoring booking")
		}
		if err != nil {
			return mapWriteError(err)
		}

		return nil
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, writeStatus(err), duration)
		return err
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// GetByID fetches a single booking
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.TutoringBooking, error) {
	start := time.Now()
	operation := "getTutoringBookingByID"

	query := fmt.Sprintf("SELECT %s FROM tutoring_bookings WHERE id = $1", tutoringBookingColumns)

	booking, err := models.ScanTutoringBooking(r.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("tutoring booking")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return booking, nil
}

// UpdateStatus transitions a booking's status. Terminal rows stay put.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status schedule.Status) error {
	start := time.Now()
	operation := "updateTutoringBookingStatus"

	query := `
		UPDATE tutoring_bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		  AND status NOT IN ('completed', 'cancelled', 'declined', 'expired')
	`

	result, err := r.pool.Exec(ctx, query, status, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("active tutoring booking")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// MarkSessionCompleted bumps the completed-sessions counter and closes the
// booking once the paid package is used up
func (r *BookingRepository) MarkSessionCompleted(ctx context.Context, id int64) (*models.TutoringBooking, error) {
	start := time.Now()
	operation := "markBookingSessionCompleted"

	query := fmt.Sprintf(`
		UPDATE tutoring_bookings
		SET sessions_completed = sessions_completed + 1,
		    status = CASE WHEN sessions_completed + 1 >= sessions_paid THEN 'completed' ELSE status END,
		    updated_at = NOW()
		WHERE id = $1
		  AND status IN ('scheduled', 'confirmed')
		  AND sessions_completed < sessions_paid
		RETURNING %s
	`, tutoringBookingColumns)

	booking, err := models.ScanTutoringBooking(r.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("active tutoring booking")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return booking, nil
}
