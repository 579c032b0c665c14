package repository

import (
	"context"
	"time"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/schedule"
)

// PersonDataSource resolves role identifiers to the person behind them.
// Conflict checks are keyed by person, not by role.
type PersonDataSource interface {
	// PersonIDForMentor returns the person owning a mentor role
	PersonIDForMentor(ctx context.Context, mentorID int64) (int64, error)

	// PersonIDForTutor returns the person owning a tutor role
	PersonIDForTutor(ctx context.Context, tutorID int64) (int64, error)
}

// CommitmentDataSource reads a person's candidate commitments across the
// mentoring and tutoring subsystems
type CommitmentDataSource interface {
	FindActiveCommitments(ctx context.Context, personID int64) ([]schedule.Commitment, error)
}

// MentoringRequestDataSource defines mentoring request operations
type MentoringRequestDataSource interface {
	// Create persists a new request and fills in generated fields
	Create(ctx context.Context, req *models.MentoringRequest) error

	// GetByID fetches a single request
	GetByID(ctx context.Context, id int64) (*models.MentoringRequest, error)

	// GetByMentor fetches a mentor's requests filtered by statuses
	GetByMentor(ctx context.Context, mentorID int64, statuses []models.RequestStatus) ([]*models.MentoringRequest, error)

	// UpdateStatus transitions a request's status
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error

	// UpdateDecline declines a request with reason and comment
	UpdateDecline(ctx context.Context, id int64, reason models.DeclineReason, comment string) error

	// ExpirePending transitions all pending requests past their expiry to
	// expired in one statement and returns the number of rows moved
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

// SessionDataSource defines mentoring session operations
type SessionDataSource interface {
	// CreateChecked inserts a session after the conflict check passes, all
	// inside one transaction. When requestID is set the originating request
	// moves pending -> scheduled in the same transaction.
	CreateChecked(ctx context.Context, personID int64, session *models.MentoringSession, requestID *int64, check ConflictCheck) error

	// RescheduleChecked moves a session to a new window after re-checking
	RescheduleChecked(ctx context.Context, personID int64, session *models.MentoringSession, check ConflictCheck) error

	// GetByID fetches a single session
	GetByID(ctx context.Context, id int64) (*models.MentoringSession, error)

	// UpdateStatus transitions a session's status
	UpdateStatus(ctx context.Context, id int64, status schedule.Status) error
}

// AvailabilityDataSource defines tutor availability slot operations
type AvailabilityDataSource interface {
	Create(ctx context.Context, slot *models.TutorAvailability) error
	Update(ctx context.Context, slot *models.TutorAvailability) error
	GetByID(ctx context.Context, id int64) (*models.TutorAvailability, error)
	ListByTutor(ctx context.Context, tutorID int64, activeOnly bool) ([]*models.TutorAvailability, error)
}

// BookingDataSource defines tutoring booking operations
type BookingDataSource interface {
	// CreateChecked inserts a booking after the conflict check passes,
	// inside one transaction guarded by the person's advisory lock
	CreateChecked(ctx context.Context, personID int64, booking *models.TutoringBooking, check ConflictCheck) error

	// RescheduleChecked moves a booking to a new occurrence after re-checking
	RescheduleChecked(ctx context.Context, personID int64, booking *models.TutoringBooking, check ConflictCheck) error

	// GetByID fetches a single booking
	GetByID(ctx context.Context, id int64) (*models.TutoringBooking, error)

	// UpdateStatus transitions a booking's status
	UpdateStatus(ctx context.Context, id int64, status schedule.Status) error

	// MarkSessionCompleted bumps the completed-sessions counter
	MarkSessionCompleted(ctx context.Context, id int64) (*models.TutoringBooking, error)
}
