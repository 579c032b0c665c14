package services

import (
	"context"
	"fmt"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/schedule"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/logger"
	"go.uber.org/zap"
)

// AvailabilityReader serves the hot list path, either straight from the
// repository or through the cache
type AvailabilityReader interface {
	ListByTutor(ctx context.Context, tutorID int64) ([]*models.TutorAvailability, error)
}

// AvailabilityInvalidator drops cached slots after a write. A no-op
// implementation is wired when the cache is disabled.
type AvailabilityInvalidator interface {
	Invalidate(tutorID int64)
}

// AvailabilityService manages tutors' published weekly slots. Slots are not
// commitments: they never conflict with sessions or bookings, only with the
// tutor's other slots.
type AvailabilityService struct {
	availabilityRepo repository.AvailabilityDataSource
	personRepo       repository.PersonDataSource
	reader           AvailabilityReader
	invalidator      AvailabilityInvalidator
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	availabilityRepo repository.AvailabilityDataSource,
	personRepo repository.PersonDataSource,
	reader AvailabilityReader,
	invalidator AvailabilityInvalidator,
) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		personRepo:       personRepo,
		reader:           reader,
		invalidator:      invalidator,
	}
}

// CreateSlot opens a weekly availability slot for a tutor
func (s *AvailabilityService) CreateSlot(ctx context.Context, payload *models.CreateAvailabilityPayload) (*models.TutorAvailability, error) {
	if _, err := s.personRepo.PersonIDForTutor(ctx, payload.TutorID); err != nil {
		return nil, err
	}

	start, err := schedule.ParseTimeOfDay(payload.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseTimeOfDay(payload.EndTime)
	if err != nil {
		return nil, err
	}

	slot := &models.TutorAvailability{
		TutorID:   payload.TutorID,
		DayOfWeek: *payload.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		Recurring: payload.Recurring,
		Active:    true,
	}

	if err := s.validateSlot(ctx, slot, 0); err != nil {
		return nil, err
	}

	if err := s.availabilityRepo.Create(ctx, slot); err != nil {
		logger.Error("Failed to create availability slot",
			zap.Int64("tutor_id", payload.TutorID),
			zap.Error(err))
		return nil, err
	}

	s.invalidator.Invalidate(slot.TutorID)

	logger.Info("Availability slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("tutor_id", slot.TutorID),
		zap.String("window", slot.Window().String()))

	return slot, nil
}

// UpdateSlot moves a slot or toggles its active flag. Existing bookings are
// untouched: they captured their occurrence at booking time.
func (s *AvailabilityService) UpdateSlot(ctx context.Context, slotID int64, payload *models.UpdateAvailabilityPayload) (*models.TutorAvailability, error) {
	slot, err := s.availabilityRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	start, err := schedule.ParseTimeOfDay(payload.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseTimeOfDay(payload.EndTime)
	if err != nil {
		return nil, err
	}

	slot.DayOfWeek = *payload.DayOfWeek
	slot.StartTime = start
	slot.EndTime = end
	slot.Active = *payload.Active

	if slot.Active {
		if err := s.validateSlot(ctx, slot, slotID); err != nil {
			return nil, err
		}
	}

	if err := s.availabilityRepo.Update(ctx, slot); err != nil {
		logger.Error("Failed to update availability slot",
			zap.Int64("slot_id", slotID),
			zap.Error(err))
		return nil, err
	}

	s.invalidator.Invalidate(slot.TutorID)

	logger.Info("Availability slot updated",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("tutor_id", slot.TutorID),
		zap.Bool("active", slot.Active))

	return slot, nil
}

// ListSlots returns a tutor's active slots
func (s *AvailabilityService) ListSlots(ctx context.Context, tutorID int64) ([]*models.TutorAvailability, error) {
	if _, err := s.personRepo.PersonIDForTutor(ctx, tutorID); err != nil {
		return nil, err
	}
	return s.reader.ListByTutor(ctx, tutorID)
}

// GetSlot fetches a single slot
func (s *AvailabilityService) GetSlot(ctx context.Context, slotID int64) (*models.TutorAvailability, error) {
	return s.availabilityRepo.GetByID(ctx, slotID)
}

// validateSlot rejects malformed windows and overlaps with the tutor's
// other active slots
func (s *AvailabilityService) validateSlot(ctx context.Context, slot *models.TutorAvailability, excludeID int64) error {
	window := slot.Window()
	if err := window.Validate(); err != nil {
		return err
	}

	existing, err := s.availabilityRepo.ListByTutor(ctx, slot.TutorID, true)
	if err != nil {
		return fmt.Errorf("failed to load existing slots: %w", err)
	}

	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if window.Overlaps(other.Window()) {
			return apperrors.ConflictError(fmt.Sprintf("overlaps existing availability slot (%s)", other.Window()))
		}
	}

	return nil
}

// repoReader adapts the repository to the AvailabilityReader interface for
// deployments running without the cache
type repoReader struct {
	repo repository.AvailabilityDataSource
}

// NewRepoReader returns an AvailabilityReader reading straight from the
// database
func NewRepoReader(repo repository.AvailabilityDataSource) AvailabilityReader {
	return repoReader{repo: repo}
}

func (r repoReader) ListByTutor(ctx context.Context, tutorID int64) ([]*models.TutorAvailability, error) {
	return r.repo.ListByTutor(ctx, tutorID, true)
}

// NoopInvalidator satisfies AvailabilityInvalidator when caching is off
type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(int64) {}
