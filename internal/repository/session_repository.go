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

const mentoringSessionColumns = `id, mentor_id, request_id, session_date, start_minutes, end_minutes,
	       status, created_at, updated_at`

// SessionRepository handles mentoring session data access
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateChecked inserts a session once the conflict check passes. The lock,
// the commitment read, the check and the insert all share one transaction.
// When requestID is set the originating request moves to scheduled in the
// same transaction, so a session never exists without its request following.
func (r *SessionRepository) CreateChecked(ctx context.Context, personID int64, session *models.MentoringSession, requestID *int64, check ConflictCheck) error {
	start := time.Now()
	operation := "createMentoringSession"

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
			INSERT INTO mentoring_sessions
				(mentor_id, request_id, session_date, start_minutes, end_minutes, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`
		err = tx.QueryRow(ctx, insert,
			session.MentorID,
			requestID,
			session.Date,
			int(session.StartTime),
			int(session.EndTime),
			session.Status,
		).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
		if err != nil {
			return mapWriteError(err)
		}

		if requestID != nil {
			tag, err := tx.Exec(ctx, `
				UPDATE mentoring_requests
				SET status = 'scheduled', status_changed_at = NOW(), updated_at = NOW()
				WHERE id = $1 AND status = 'pending'
			`, *requestID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return apperrors.NotFoundError("pending mentoring request")
			}
			session.RequestID = requestID
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

// RescheduleChecked moves a session to a new window after re-running the
// conflict check against the person's other commitments
func (r *SessionRepository) RescheduleChecked(ctx context.Context, personID int64, session *models.MentoringSession, check ConflictCheck) error {
	start := time.Now()
	operation := "rescheduleMentoringSession"

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
			UPDATE mentoring_sessions
			SET session_date = $1, start_minutes = $2, end_minutes = $3, updated_at = NOW()
			WHERE id = $4
			  AND status IN ('scheduled', 'confirmed')
			RETURNING updated_at
		`
		err = tx.QueryRow(ctx, update,
			session.Date,
			int(session.StartTime),
			int(session.EndTime),
			session.ID,
		).Scan(&session.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundError("active mentoring session")
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

// GetByID fetches a single session
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.MentoringSession, error) {
	start := time.Now()
	operation := "getMentoringSessionByID"

	query := fmt.Sprintf("SELECT %s FROM mentoring_sessions WHERE id = $1", mentoringSessionColumns)

	session, err := models.ScanMentoringSession(r.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("mentoring session")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return session, nil
}

// UpdateStatus transitions a session's status. Terminal rows stay put.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id int64, status schedule.Status) error {
	start := time.Now()
	operation := "updateMentoringSessionStatus"

	query := `
		UPDATE mentoring_sessions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		  AND status NOT IN ('completed', 'cancelled', 'declined', 'expired')
	`

	result, err := r.pool.Exec(ctx, query, status, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to update session status: %w", err)
	}

	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("active mentoring session")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// writeStatus maps a failed checked write to its metric label
func writeStatus(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
