package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campushub/campushub-api/internal/models"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const mentoringRequestColumns = `id, mentor_id, student_name, student_email, topic, description,
	       preferred_time, expiry_date, status, decline_reason, decline_comment,
	       manage_token, status_changed_at, created_at, updated_at`

// MentoringRequestRepository handles mentoring request data access
type MentoringRequestRepository struct {
	pool *pgxpool.Pool
}

// NewMentoringRequestRepository creates a new mentoring request repository
func NewMentoringRequestRepository(pool *pgxpool.Pool) *MentoringRequestRepository {
	return &MentoringRequestRepository{pool: pool}
}

// Create persists a new request. ID, manage token and timestamps come back
// from the database.
func (r *MentoringRequestRepository) Create(ctx context.Context, req *models.MentoringRequest) error {
	start := time.Now()
	operation := "createMentoringRequest"

	query := `
		INSERT INTO mentoring_requests
			(mentor_id, student_name, student_email, topic, description, preferred_time, expiry_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, manage_token, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		req.MentorID,
		req.StudentName,
		req.StudentEmail,
		req.Topic,
		nilIfEmpty(req.Description),
		req.PreferredTime,
		req.ExpiryDate,
		models.RequestStatusPending,
	).Scan(&req.ID, &req.ManageToken, &req.CreatedAt, &req.UpdatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to create mentoring request: %w", err)
	}

	req.Status = models.RequestStatusPending
	recordMetrics(operation, "success", duration)

	return nil
}

// GetByID fetches a single request
func (r *MentoringRequestRepository) GetByID(ctx context.Context, id int64) (*models.MentoringRequest, error) {
	start := time.Now()
	operation := "getMentoringRequestByID"

	query := fmt.Sprintf("SELECT %s FROM mentoring_requests WHERE id = $1", mentoringRequestColumns)

	req, err := models.ScanMentoringRequest(r.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("mentoring request")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return req, nil
}

// GetByMentor fetches a mentor's requests filtered by statuses
func (r *MentoringRequestRepository) GetByMentor(ctx context.Context, mentorID int64, statuses []models.RequestStatus) ([]*models.MentoringRequest, error) {
	start := time.Now()
	operation := "getMentoringRequestsByMentor"

	placeholders := make([]string, 0, len(statuses))
	args := []any{mentorID}
	for i, s := range statuses {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, s)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM mentoring_requests
		WHERE mentor_id = $1 AND status IN (%s)
		ORDER BY preferred_time ASC
	`, mentoringRequestColumns, strings.Join(placeholders, ", "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}

	requests, err := models.ScanMentoringRequests(rows)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return requests, nil
}

// UpdateStatus transitions a request's status. The transition is validated
// again in SQL so a concurrent writer cannot slip past the service check.
func (r *MentoringRequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	start := time.Now()
	operation := "updateMentoringRequestStatus"

	query := `
		UPDATE mentoring_requests
		SET status = $1, status_changed_at = NOW(), updated_at = NOW()
		WHERE id = $2
		  AND status NOT IN ('completed', 'declined', 'expired')
	`

	result, err := r.pool.Exec(ctx, query, status, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to update request status: %w", err)
	}

	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("pending mentoring request")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// UpdateDecline declines a request with reason and comment
func (r *MentoringRequestRepository) UpdateDecline(ctx context.Context, id int64, reason models.DeclineReason, comment string) error {
	start := time.Now()
	operation := "declineMentoringRequest"

	query := `
		UPDATE mentoring_requests
		SET status = 'declined', decline_reason = $1, decline_comment = $2,
		    status_changed_at = NOW(), updated_at = NOW()
		WHERE id = $3
		  AND status = 'pending'
	`

	result, err := r.pool.Exec(ctx, query, reason, nilIfEmpty(comment), id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to decline request: %w", err)
	}

	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("pending mentoring request")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// ExpirePending moves every pending request past its expiry to expired in a
// single statement. The WHERE clause alone makes the sweep idempotent and
// keeps it away from scheduled and terminal rows.
func (r *MentoringRequestRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	operation := "expirePendingRequests"

	query := `
		UPDATE mentoring_requests
		SET status = 'expired', status_changed_at = NOW(), updated_at = NOW()
		WHERE status = 'pending' AND expiry_date < $1
	`

	result, err := r.pool.Exec(ctx, query, now)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return 0, fmt.Errorf("failed to expire pending requests: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return result.RowsAffected(), nil
}

// nilIfEmpty returns nil if string is empty, otherwise returns pointer to string
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
