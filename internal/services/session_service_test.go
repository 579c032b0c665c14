package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/schedule"
	"github.com/campushub/campushub-api/internal/services"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSessionService(sessionRepo *MockSessionRepository, personRepo *MockPersonRepository) *services.SessionService {
	resolver := schedule.NewResolver(schedule.Policy{})
	return services.NewSessionService(sessionRepo, personRepo, resolver)
}

func TestCreateSession(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newSessionService(sessionRepo, personRepo)

	personRepo.On("PersonIDForMentor", mock.Anything, int64(1)).Return(int64(100), nil)
	sessionRepo.On("CreateChecked", mock.Anything, int64(100), mock.Anything, (*int64)(nil)).Return(nil)

	session, err := svc.CreateSession(context.Background(), &models.CreateSessionPayload{
		MentorID:  1,
		Date:      "2025-11-03",
		StartTime: "14:00",
		EndTime:   "15:00",
	})

	require.NoError(t, err)
	assert.Equal(t, schedule.StatusScheduled, session.Status)
	assert.Nil(t, session.RequestID)
}

func TestCreateSession_Conflict(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newSessionService(sessionRepo, personRepo)

	sessionRepo.Existing = []schedule.Commitment{{
		ID:        9,
		Subsystem: schedule.SubsystemMentoring,
		Status:    schedule.StatusScheduled,
		Window: schedule.NewDateWindow(
			time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
			schedule.TimeOfDay(14*60), schedule.TimeOfDay(15*60)),
	}}

	personRepo.On("PersonIDForMentor", mock.Anything, int64(1)).Return(int64(100), nil)

	_, err := svc.CreateSession(context.Background(), &models.CreateSessionPayload{
		MentorID:  1,
		Date:      "2025-11-03",
		StartTime: "14:30",
		EndTime:   "15:30",
	})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateSession_AdjacentWindows(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newSessionService(sessionRepo, personRepo)

	sessionRepo.Existing = []schedule.Commitment{{
		ID:        9,
		Subsystem: schedule.SubsystemMentoring,
		Status:    schedule.StatusScheduled,
		Window: schedule.NewDateWindow(
			time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
			schedule.TimeOfDay(14*60), schedule.TimeOfDay(15*60)),
	}}

	personRepo.On("PersonIDForMentor", mock.Anything, int64(1)).Return(int64(100), nil)
	sessionRepo.On("CreateChecked", mock.Anything, int64(100), mock.Anything, (*int64)(nil)).Return(nil)

	// Starts exactly when the other ends
	_, err := svc.CreateSession(context.Background(), &models.CreateSessionPayload{
		MentorID:  1,
		Date:      "2025-11-03",
		StartTime: "15:00",
		EndTime:   "16:00",
	})

	assert.NoError(t, err)
}

func TestRescheduleSession_ExcludesItself(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newSessionService(sessionRepo, personRepo)

	existing := &models.MentoringSession{
		ID:        9,
		MentorID:  1,
		Date:      time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		StartTime: schedule.TimeOfDay(14 * 60),
		EndTime:   schedule.TimeOfDay(15 * 60),
		Status:    schedule.StatusScheduled,
	}

	sessionRepo.Existing = []schedule.Commitment{{
		ID:        9,
		Subsystem: schedule.SubsystemMentoring,
		Status:    schedule.StatusScheduled,
		Window:    existing.Window(),
	}}

	sessionRepo.On("GetByID", mock.Anything, int64(9)).Return(existing, nil)
	personRepo.On("PersonIDForMentor", mock.Anything, int64(1)).Return(int64(100), nil)
	sessionRepo.On("RescheduleChecked", mock.Anything, int64(100), mock.Anything).Return(nil)

	session, err := svc.RescheduleSession(context.Background(), 9, &models.RescheduleSessionPayload{
		Date:      "2025-11-03",
		StartTime: "14:30",
		EndTime:   "15:30",
	})

	require.NoError(t, err)
	assert.Equal(t, "14:30", session.StartTime.String())
}

func TestRescheduleSession_Terminal(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	svc := newSessionService(sessionRepo, new(MockPersonRepository))

	sessionRepo.On("GetByID", mock.Anything, int64(9)).
		Return(&models.MentoringSession{ID: 9, Status: schedule.StatusCompleted}, nil)

	_, err := svc.RescheduleSession(context.Background(), 9, &models.RescheduleSessionPayload{
		Date:      "2025-11-03",
		StartTime: "14:00",
		EndTime:   "15:00",
	})

	assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)
}

func TestSessionTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    schedule.Status
		next    schedule.Status
		wantErr bool
	}{
		{
			name: "confirm scheduled",
			from: schedule.StatusScheduled,
			next: schedule.StatusConfirmed,
		},
		{
			name: "complete confirmed",
			from: schedule.StatusConfirmed,
			next: schedule.StatusCompleted,
		},
		{
			name: "cancel scheduled",
			from: schedule.StatusScheduled,
			next: schedule.StatusCancelled,
		},
		{
			name:    "cancel completed",
			from:    schedule.StatusCompleted,
			next:    schedule.StatusCancelled,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionRepo := new(MockSessionRepository)
			svc := newSessionService(sessionRepo, new(MockPersonRepository))

			sessionRepo.On("GetByID", mock.Anything, int64(9)).
				Return(&models.MentoringSession{ID: 9, Status: tt.from}, nil)
			if !tt.wantErr {
				sessionRepo.On("UpdateStatus", mock.Anything, int64(9), tt.next).Return(nil)
			}

			var err error
			switch tt.next {
			case schedule.StatusConfirmed:
				_, err = svc.ConfirmSession(context.Background(), 9)
			case schedule.StatusCompleted:
				_, err = svc.CompleteSession(context.Background(), 9)
			case schedule.StatusCancelled:
				_, err = svc.CancelSession(context.Background(), 9)
			}

			if tt.wantErr {
				assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
