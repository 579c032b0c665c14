package services

import (
	"context"
	"time"

	"github.com/campushub/campushub-api/internal/models"
)

// MentoringServiceInterface defines the interface for the mentoring request
// lifecycle
type MentoringServiceInterface interface {
	CreateRequest(ctx context.Context, payload *models.CreateMentoringRequestPayload) (*models.MentoringRequest, error)
	GetRequests(ctx context.Context, mentorID int64, group string) (*models.MentoringRequestsResponse, error)
	GetRequestByID(ctx context.Context, mentorID int64, requestID int64) (*models.MentoringRequest, error)
	AcceptRequest(ctx context.Context, mentorID int64, requestID int64, payload *models.AcceptRequestPayload) (*models.MentoringSession, error)
	DeclineRequest(ctx context.Context, mentorID int64, requestID int64, payload *models.DeclineRequestPayload) (*models.MentoringRequest, error)
	CompleteRequest(ctx context.Context, mentorID int64, requestID int64) (*models.MentoringRequest, error)
}

// SessionServiceInterface defines the interface for mentoring session
// operations
type SessionServiceInterface interface {
	CreateSession(ctx context.Context, payload *models.CreateSessionPayload) (*models.MentoringSession, error)
	RescheduleSession(ctx context.Context, sessionID int64, payload *models.RescheduleSessionPayload) (*models.MentoringSession, error)
	ConfirmSession(ctx context.Context, sessionID int64) (*models.MentoringSession, error)
	CompleteSession(ctx context.Context, sessionID int64) (*models.MentoringSession, error)
	CancelSession(ctx context.Context, sessionID int64) (*models.MentoringSession, error)
	GetSession(ctx context.Context, sessionID int64) (*models.MentoringSession, error)
}

// AvailabilityServiceInterface defines the interface for tutor availability
// slot management
type AvailabilityServiceInterface interface {
	CreateSlot(ctx context.Context, payload *models.CreateAvailabilityPayload) (*models.TutorAvailability, error)
	UpdateSlot(ctx context.Context, slotID int64, payload *models.UpdateAvailabilityPayload) (*models.TutorAvailability, error)
	ListSlots(ctx context.Context, tutorID int64) ([]*models.TutorAvailability, error)
	GetSlot(ctx context.Context, slotID int64) (*models.TutorAvailability, error)
}

// BookingServiceInterface defines the interface for tutoring booking
// operations
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, payload *models.CreateBookingPayload) (*models.TutoringBooking, error)
	RescheduleBooking(ctx context.Context, bookingID int64, payload *models.RescheduleBookingPayload) (*models.TutoringBooking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*models.TutoringBooking, error)
	CompleteSession(ctx context.Context, bookingID int64) (*models.TutoringBooking, error)
	GetBooking(ctx context.Context, bookingID int64) (*models.TutoringBooking, error)
}

// ScheduleServiceInterface defines the interface for advisory conflict
// previews
type ScheduleServiceInterface interface {
	CheckConflicts(ctx context.Context, payload *models.CheckConflictPayload) (*models.ConflictCheckResult, error)
}

// ExpiryServiceInterface defines the interface for the expiry sweep
type ExpiryServiceInterface interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// Ensure services implement their interfaces
var _ MentoringServiceInterface = (*MentoringService)(nil)
var _ SessionServiceInterface = (*SessionService)(nil)
var _ AvailabilityServiceInterface = (*AvailabilityService)(nil)
var _ BookingServiceInterface = (*BookingService)(nil)
var _ ScheduleServiceInterface = (*ScheduleService)(nil)
var _ ExpiryServiceInterface = (*ExpiryService)(nil)
