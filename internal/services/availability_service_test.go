package services_test

import (
	"context"
	"testing"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/schedule"
	"github.com/campushub/campushub-api/internal/services"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingInvalidator counts cache invalidations per tutor
type recordingInvalidator struct {
	calls []int64
}

func (r *recordingInvalidator) Invalidate(tutorID int64) {
	r.calls = append(r.calls, tutorID)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func newAvailabilityService(repo *MockAvailabilityRepository, personRepo *MockPersonRepository, inv *recordingInvalidator) *services.AvailabilityService {
	return services.NewAvailabilityService(repo, personRepo, services.NewRepoReader(repo), inv)
}

func TestCreateSlot(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	personRepo := new(MockPersonRepository)
	inv := &recordingInvalidator{}
	svc := newAvailabilityService(repo, personRepo, inv)

	personRepo.On("PersonIDForTutor", mock.Anything, int64(3)).Return(int64(200), nil)
	repo.On("ListByTutor", mock.Anything, int64(3), true).Return([]*models.TutorAvailability{}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(slot *models.TutorAvailability) bool {
		return slot.DayOfWeek == 1 && slot.StartTime == schedule.TimeOfDay(9*60) && slot.Active
	})).Return(nil)

	slot, err := svc.CreateSlot(context.Background(), &models.CreateAvailabilityPayload{
		TutorID:   3,
		DayOfWeek: intPtr(1),
		StartTime: "09:00",
		EndTime:   "12:00",
		Recurring: true,
	})

	require.NoError(t, err)
	assert.True(t, slot.Active)
	assert.Equal(t, []int64{3}, inv.calls)
	repo.AssertExpectations(t)
}

func TestCreateSlot_OverlapsExistingSlot(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	personRepo := new(MockPersonRepository)
	svc := newAvailabilityService(repo, personRepo, &recordingInvalidator{})

	personRepo.On("PersonIDForTutor", mock.Anything, int64(3)).Return(int64(200), nil)
	repo.On("ListByTutor", mock.Anything, int64(3), true).Return([]*models.TutorAvailability{{
		ID:        20,
		TutorID:   3,
		DayOfWeek: 1,
		StartTime: schedule.TimeOfDay(10 * 60),
		EndTime:   schedule.TimeOfDay(13 * 60),
		Active:    true,
	}}, nil)

	_, err := svc.CreateSlot(context.Background(), &models.CreateAvailabilityPayload{
		TutorID:   3,
		DayOfWeek: intPtr(1),
		StartTime: "09:00",
		EndTime:   "11:00",
	})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateSlot_AdjacentSlotAllowed(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	personRepo := new(MockPersonRepository)
	svc := newAvailabilityService(repo, personRepo, &recordingInvalidator{})

	personRepo.On("PersonIDForTutor", mock.Anything, int64(3)).Return(int64(200), nil)
	repo.On("ListByTutor", mock.Anything, int64(3), true).Return([]*models.TutorAvailability{{
		ID:        20,
		TutorID:   3,
		DayOfWeek: 1,
		StartTime: schedule.TimeOfDay(9 * 60),
		EndTime:   schedule.TimeOfDay(10 * 60),
		Active:    true,
	}}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	// Back to back with the existing slot: half-open semantics, no overlap
	_, err := svc.CreateSlot(context.Background(), &models.CreateAvailabilityPayload{
		TutorID:   3,
		DayOfWeek: intPtr(1),
		StartTime: "10:00",
		EndTime:   "11:00",
	})

	assert.NoError(t, err)
}

func TestCreateSlot_InvalidWindow(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	personRepo := new(MockPersonRepository)
	svc := newAvailabilityService(repo, personRepo, &recordingInvalidator{})

	personRepo.On("PersonIDForTutor", mock.Anything, int64(3)).Return(int64(200), nil)

	_, err := svc.CreateSlot(context.Background(), &models.CreateAvailabilityPayload{
		TutorID:   3,
		DayOfWeek: intPtr(1),
		StartTime: "12:00",
		EndTime:   "09:00",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateSlot_DeactivateSkipsOverlapCheck(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	personRepo := new(MockPersonRepository)
	inv := &recordingInvalidator{}
	svc := newAvailabilityService(repo, personRepo, inv)

	repo.On("GetByID", mock.Anything, int64(20)).Return(&models.TutorAvailability{
		ID:        20,
		TutorID:   3,
		DayOfWeek: 1,
		StartTime: schedule.TimeOfDay(9 * 60),
		EndTime:   schedule.TimeOfDay(12 * 60),
		Active:    true,
	}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(slot *models.TutorAvailability) bool {
		return !slot.Active
	})).Return(nil)

	slot, err := svc.UpdateSlot(context.Background(), 20, &models.UpdateAvailabilityPayload{
		DayOfWeek: intPtr(1),
		StartTime: "09:00",
		EndTime:   "12:00",
		Active:    boolPtr(false),
	})

	require.NoError(t, err)
	assert.False(t, slot.Active)
	assert.Equal(t, []int64{3}, inv.calls)
	repo.AssertNotCalled(t, "ListByTutor")
}

func TestUpdateSlot_MoveExcludesItself(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	personRepo := new(MockPersonRepository)
	svc := newAvailabilityService(repo, personRepo, &recordingInvalidator{})

	current := &models.TutorAvailability{
		ID:        20,
		TutorID:   3,
		DayOfWeek: 1,
		StartTime: schedule.TimeOfDay(9 * 60),
		EndTime:   schedule.TimeOfDay(12 * 60),
		Active:    true,
	}

	repo.On("GetByID", mock.Anything, int64(20)).Return(current, nil)
	repo.On("ListByTutor", mock.Anything, int64(3), true).Return([]*models.TutorAvailability{current}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	// Shifting within its own old window must not conflict with itself
	slot, err := svc.UpdateSlot(context.Background(), 20, &models.UpdateAvailabilityPayload{
		DayOfWeek: intPtr(1),
		StartTime: "10:00",
		EndTime:   "13:00",
		Active:    boolPtr(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "10:00", slot.StartTime.String())
}
