// Package repository implements PostgreSQL data access for the scheduling
// platform. Conflict-checked writes run inside a single transaction guarded
// by a per-person advisory lock so two concurrent bookings cannot both pass
// the check; partial unique indexes in the schema are the backstop.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/campushub/campushub-api/internal/schedule"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/campushub/campushub-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConflictCheck receives a person's active commitments inside the write
// transaction and returns an error to abort the write. Services pass a
// closure around the schedule resolver.
type ConflictCheck func(existing []schedule.Commitment) error

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// recordMetrics records database operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.DBOperationDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues(operation, status).Inc()
	logger.LogDBCall(operation, status, duration)
}

// mapWriteError translates driver-level failures into application errors.
// A unique violation on an occurrence index means another transaction won
// the slot.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperrors.ConflictError("time slot already taken")
	}
	return err
}

// lockPerson serializes writers touching one person's commitment set for
// the duration of the transaction
func lockPerson(ctx context.Context, tx pgx.Tx, personID int64) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", personID)
	return err
}

// findActiveCommitmentsQuery collects a person's candidate commitments
// across both subsystems. Pending rows are returned too; the resolver's
// policy decides whether they occupy.
const findActiveCommitmentsQuery = `
	SELECT s.id, 'mentoring' AS subsystem, s.status, s.session_date, s.start_minutes, s.end_minutes
	FROM mentoring_sessions s
	JOIN mentors m ON m.id = s.mentor_id
	WHERE m.person_id = $1
	  AND s.status IN ('pending', 'scheduled', 'confirmed')
	UNION ALL
	SELECT b.id, 'tutoring' AS subsystem, b.status, b.booking_date, b.start_minutes, b.end_minutes
	FROM tutoring_bookings b
	JOIN tutors t ON t.id = b.tutor_id
	WHERE t.person_id = $1
	  AND b.status IN ('pending', 'scheduled', 'confirmed')
`

// findActiveCommitments runs the cross-subsystem commitment query on the
// given querier (pool for plain reads, tx inside conflict-checked writes)
func findActiveCommitments(ctx context.Context, q querier, personID int64) ([]schedule.Commitment, error) {
	rows, err := q.Query(ctx, findActiveCommitmentsQuery, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commitments := []schedule.Commitment{}
	for rows.Next() {
		var (
			c            schedule.Commitment
			subsystem    string
			status       string
			date         time.Time
			startMinutes int
			endMinutes   int
		)
		if err := rows.Scan(&c.ID, &subsystem, &status, &date, &startMinutes, &endMinutes); err != nil {
			return nil, err
		}
		c.Subsystem = schedule.Subsystem(subsystem)
		c.Status = schedule.Status(status)
		c.Window = schedule.NewDateWindow(date, schedule.TimeOfDay(startMinutes), schedule.TimeOfDay(endMinutes))
		commitments = append(commitments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return commitments, nil
}
