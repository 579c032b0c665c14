package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/schedule"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/campushub/campushub-api/pkg/metrics"
	"go.uber.org/zap"
)

// BookingService handles tutoring bookings: occurrences of a tutor's weekly
// slots claimed by a student
type BookingService struct {
	bookingRepo      repository.BookingDataSource
	availabilityRepo repository.AvailabilityDataSource
	personRepo       repository.PersonDataSource
	resolver         *schedule.Resolver
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo repository.BookingDataSource,
	availabilityRepo repository.AvailabilityDataSource,
	personRepo repository.PersonDataSource,
	resolver *schedule.Resolver,
) *BookingService {
	return &BookingService{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		personRepo:       personRepo,
		resolver:         resolver,
	}
}

// CreateBooking books one occurrence of an availability slot. The occurrence
// must fall inside the slot's weekly window; the conflict check then guards
// it against the tutor's commitments in both subsystems.
func (s *BookingService) CreateBooking(ctx context.Context, payload *models.CreateBookingPayload) (*models.TutoringBooking, error) {
	personID, err := s.personRepo.PersonIDForTutor(ctx, payload.TutorID)
	if err != nil {
		return nil, err
	}

	slot, err := s.availabilityRepo.GetByID(ctx, payload.AvailabilityID)
	if err != nil {
		return nil, err
	}
	if slot.TutorID != payload.TutorID {
		return nil, apperrors.InvalidInputError("availabilityId", "slot does not belong to this tutor")
	}
	if !slot.Active {
		return nil, apperrors.InvalidInputError("availabilityId", "slot is not active")
	}

	date, start, end, err := parseOccurrence(payload.Date, payload.StartTime, payload.EndTime)
	if err != nil {
		return nil, err
	}

	if err := occurrenceWithinSlot(slot, date, start, end); err != nil {
		return nil, err
	}

	sessionsPaid := payload.SessionsPaid
	if sessionsPaid == 0 {
		sessionsPaid = 1
	}

	booking := &models.TutoringBooking{
		TutorID:        payload.TutorID,
		AvailabilityID: payload.AvailabilityID,
		StudentName:    payload.StudentName,
		StudentEmail:   payload.StudentEmail,
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		Status:         schedule.StatusConfirmed,
		SessionsPaid:   sessionsPaid,
	}

	check := conflictCheck(s.resolver, schedule.SubsystemTutoring, booking.Window(), 0)

	if err := s.bookingRepo.CreateChecked(ctx, personID, booking, check); err != nil {
		logger.Error("Failed to create booking",
			zap.Int64("tutor_id", payload.TutorID),
			zap.Int64("slot_id", payload.AvailabilityID),
			zap.Error(err))
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues(string(booking.Status)).Inc()

	logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("tutor_id", booking.TutorID),
		zap.String("window", booking.Window().String()))

	return booking, nil
}

// RescheduleBooking moves a booking to another occurrence of its slot
func (s *BookingService) RescheduleBooking(ctx context.Context, bookingID int64, payload *models.RescheduleBookingPayload) (*models.TutoringBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status.Terminal() {
		return nil, fmt.Errorf("%w: booking with status '%s' cannot be rescheduled", ErrInvalidStatusTransition, booking.Status)
	}

	slot, err := s.availabilityRepo.GetByID(ctx, booking.AvailabilityID)
	if err != nil {
		return nil, err
	}

	date, start, end, err := parseOccurrence(payload.Date, payload.StartTime, payload.EndTime)
	if err != nil {
		return nil, err
	}

	if err := occurrenceWithinSlot(slot, date, start, end); err != nil {
		return nil, err
	}

	personID, err := s.personRepo.PersonIDForTutor(ctx, booking.TutorID)
	if err != nil {
		return nil, err
	}

	booking.Date = date
	booking.StartTime = start
	booking.EndTime = end

	check := conflictCheck(s.resolver, schedule.SubsystemTutoring, booking.Window(), bookingID)

	if err := s.bookingRepo.RescheduleChecked(ctx, personID, booking, check); err != nil {
		logger.Error("Failed to reschedule booking",
			zap.Int64("booking_id", bookingID),
			zap.Error(err))
		return nil, err
	}

	logger.Info("Booking rescheduled",
		zap.Int64("booking_id", bookingID),
		zap.String("window", booking.Window().String()))

	return booking, nil
}

// CancelBooking cancels a booking, releasing its occurrence
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (*models.TutoringBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(schedule.StatusCancelled) {
		return nil, fmt.Errorf("%w: cannot transition from '%s' to '%s'", ErrInvalidStatusTransition, booking.Status, schedule.StatusCancelled)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, schedule.StatusCancelled); err != nil {
		logger.Error("Failed to cancel booking",
			zap.Int64("booking_id", bookingID),
			zap.Error(err))
		return nil, err
	}

	logger.Info("Booking cancelled", zap.Int64("booking_id", bookingID))

	booking.Status = schedule.StatusCancelled
	return booking, nil
}

// CompleteSession records one delivered session against the booking's paid
// package; the repository closes the booking when the package is used up
func (s *BookingService) CompleteSession(ctx context.Context, bookingID int64) (*models.TutoringBooking, error) {
	booking, err := s.bookingRepo.MarkSessionCompleted(ctx, bookingID)
	if err != nil {
		logger.Error("Failed to record completed session",
			zap.Int64("booking_id", bookingID),
			zap.Error(err))
		return nil, err
	}

	logger.Info("Booking session completed",
		zap.Int64("booking_id", bookingID),
		zap.Int("sessions_completed", booking.SessionsCompleted),
		zap.Int("sessions_paid", booking.SessionsPaid),
		zap.String("status", string(booking.Status)))

	return booking, nil
}

// GetBooking fetches a single booking
func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*models.TutoringBooking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// occurrenceWithinSlot checks that a concrete occurrence falls inside the
// slot's weekly window: same weekday, start and end within the slot's bounds
func occurrenceWithinSlot(slot *models.TutorAvailability, date time.Time, start, end schedule.TimeOfDay) error {
	if int(date.Weekday()) != slot.DayOfWeek {
		return apperrors.InvalidInputError("date",
			fmt.Sprintf("%s is a %s, slot is on %s", date.Format("2006-01-02"), date.Weekday(), time.Weekday(slot.DayOfWeek)))
	}
	if start < slot.StartTime || end > slot.EndTime {
		return apperrors.InvalidInputError("startTime",
			fmt.Sprintf("%s-%s is outside the slot window %s-%s", start, end, slot.StartTime, slot.EndTime))
	}
	return nil
}
