package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/campushub/campushub-api/config"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/schedule"
	"github.com/campushub/campushub-api/internal/services"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Scheduling: config.SchedulingConfig{
			ExpiryLead:    3 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
	}
}

func newMentoringService(requestRepo *MockMentoringRequestRepository, sessionRepo *MockSessionRepository, personRepo *MockPersonRepository) *services.MentoringService {
	resolver := schedule.NewResolver(schedule.Policy{})
	return services.NewMentoringService(requestRepo, sessionRepo, personRepo, resolver, testConfig(), nil)
}

func TestCreateRequest_ComputesExpiryFromPreferredTime(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newMentoringService(requestRepo, sessionRepo, personRepo)

	preferred := time.Date(2025, 11, 2, 14, 0, 0, 0, time.UTC)

	personRepo.On("PersonIDForMentor", mock.Anything, int64(7)).Return(int64(100), nil)
	requestRepo.On("Create", mock.Anything, mock.MatchedBy(func(req *models.MentoringRequest) bool {
		return req.ExpiryDate.Equal(preferred.Add(-3 * time.Hour))
	})).Return(nil)

	request, err := svc.CreateRequest(context.Background(), &models.CreateMentoringRequestPayload{
		MentorID:      7,
		StudentName:   "Dana",
		StudentEmail:  "dana@example.edu",
		Topic:         "Career advice",
		PreferredTime: preferred,
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 2, 11, 0, 0, 0, time.UTC), request.ExpiryDate)
	requestRepo.AssertExpectations(t)
}

func TestCreateRequest_UnknownMentor(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newMentoringService(requestRepo, sessionRepo, personRepo)

	personRepo.On("PersonIDForMentor", mock.Anything, int64(99)).Return(int64(0), apperrors.NotFoundError("mentor"))

	_, err := svc.CreateRequest(context.Background(), &models.CreateMentoringRequestPayload{
		MentorID:      99,
		StudentName:   "Dana",
		StudentEmail:  "dana@example.edu",
		Topic:         "Career advice",
		PreferredTime: time.Now().Add(24 * time.Hour),
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	requestRepo.AssertNotCalled(t, "Create")
}

func TestGetRequests_InvalidGroup(t *testing.T) {
	svc := newMentoringService(new(MockMentoringRequestRepository), new(MockSessionRepository), new(MockPersonRepository))

	_, err := svc.GetRequests(context.Background(), 1, "archived")

	assert.ErrorIs(t, err, services.ErrInvalidRequestGroup)
}

func TestGetRequests_ActiveGroupStatuses(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	svc := newMentoringService(requestRepo, new(MockSessionRepository), new(MockPersonRepository))

	requestRepo.On("GetByMentor", mock.Anything, int64(1), models.ActiveRequestStatuses).
		Return([]*models.MentoringRequest{{ID: 5, MentorID: 1, Status: models.RequestStatusPending}}, nil)

	resp, err := svc.GetRequests(context.Background(), 1, "active")

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(5), resp.Requests[0].ID)
}

func TestGetRequestByID_WrongMentor(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	svc := newMentoringService(requestRepo, new(MockSessionRepository), new(MockPersonRepository))

	requestRepo.On("GetByID", mock.Anything, int64(5)).
		Return(&models.MentoringRequest{ID: 5, MentorID: 2, Status: models.RequestStatusPending}, nil)

	_, err := svc.GetRequestByID(context.Background(), 1, 5)

	assert.ErrorIs(t, err, services.ErrAccessDenied)
}

func TestAcceptRequest_DefaultsToPreferredTimePlusHour(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newMentoringService(requestRepo, sessionRepo, personRepo)

	preferred := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)

	requestRepo.On("GetByID", mock.Anything, int64(5)).
		Return(&models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusPending, PreferredTime: preferred}, nil)
	personRepo.On("PersonIDForMentor", mock.Anything, int64(1)).Return(int64(100), nil)
	sessionRepo.On("CreateChecked", mock.Anything, int64(100), mock.MatchedBy(func(s *models.MentoringSession) bool {
		return s.StartTime == schedule.TimeOfDay(9*60+30) && s.EndTime == schedule.TimeOfDay(10*60+30)
	}), mock.MatchedBy(func(id *int64) bool { return id != nil && *id == 5 })).Return(nil)

	session, err := svc.AcceptRequest(context.Background(), 1, 5, nil)

	require.NoError(t, err)
	assert.Equal(t, schedule.StatusScheduled, session.Status)
	assert.Equal(t, "09:30", session.StartTime.String())
	sessionRepo.AssertExpectations(t)
}

func TestAcceptRequest_ConflictAcrossSubsystems(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newMentoringService(requestRepo, sessionRepo, personRepo)

	preferred := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)

	// The mentor already tutors 09:00-10:00 that day under another hat
	sessionRepo.Existing = []schedule.Commitment{{
		ID:        42,
		Subsystem: schedule.SubsystemTutoring,
		Status:    schedule.StatusConfirmed,
		Window:    schedule.NewDateWindow(preferred, schedule.TimeOfDay(9*60), schedule.TimeOfDay(10*60)),
	}}

	requestRepo.On("GetByID", mock.Anything, int64(5)).
		Return(&models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusPending, PreferredTime: preferred}, nil)
	personRepo.On("PersonIDForMentor", mock.Anything, int64(1)).Return(int64(100), nil)

	_, err := svc.AcceptRequest(context.Background(), 1, 5, nil)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "tutoring")
	sessionRepo.AssertNotCalled(t, "CreateChecked")
}

func TestAcceptRequest_AlreadyScheduled(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	svc := newMentoringService(requestRepo, new(MockSessionRepository), new(MockPersonRepository))

	requestRepo.On("GetByID", mock.Anything, int64(5)).
		Return(&models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusScheduled}, nil)

	_, err := svc.AcceptRequest(context.Background(), 1, 5, nil)

	assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)
}

func TestAcceptRequest_ExplicitWindow(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	sessionRepo := new(MockSessionRepository)
	personRepo := new(MockPersonRepository)
	svc := newMentoringService(requestRepo, sessionRepo, personRepo)

	requestRepo.On("GetByID", mock.Anything, int64(5)).
		Return(&models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusPending}, nil)
	personRepo.On("PersonIDForMentor", mock.Anything, int64(1)).Return(int64(100), nil)
	sessionRepo.On("CreateChecked", mock.Anything, int64(100), mock.Anything, mock.Anything).Return(nil)

	session, err := svc.AcceptRequest(context.Background(), 1, 5, &models.AcceptRequestPayload{
		Date:      "2025-11-04",
		StartTime: "16:00",
		EndTime:   "17:30",
	})

	require.NoError(t, err)
	assert.Equal(t, "16:00", session.StartTime.String())
	assert.Equal(t, "17:30", session.EndTime.String())
	assert.Equal(t, time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC), session.Date)
}

func TestAcceptRequest_PartialWindowRejected(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	svc := newMentoringService(requestRepo, new(MockSessionRepository), new(MockPersonRepository))

	requestRepo.On("GetByID", mock.Anything, int64(5)).
		Return(&models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusPending}, nil)

	_, err := svc.AcceptRequest(context.Background(), 1, 5, &models.AcceptRequestPayload{Date: "2025-11-04"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestDeclineRequest(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	svc := newMentoringService(requestRepo, new(MockSessionRepository), new(MockPersonRepository))

	pending := &models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusPending}
	declined := &models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusDeclined}

	requestRepo.On("GetByID", mock.Anything, int64(5)).Return(pending, nil).Once()
	requestRepo.On("UpdateDecline", mock.Anything, int64(5), models.DeclineNoTime, "fully booked").Return(nil)
	requestRepo.On("GetByID", mock.Anything, int64(5)).Return(declined, nil).Once()

	result, err := svc.DeclineRequest(context.Background(), 1, 5, &models.DeclineRequestPayload{
		Reason:  models.DeclineNoTime,
		Comment: "fully booked",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusDeclined, result.Status)
	requestRepo.AssertExpectations(t)
}

func TestDeclineRequest_TerminalStatus(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	svc := newMentoringService(requestRepo, new(MockSessionRepository), new(MockPersonRepository))

	requestRepo.On("GetByID", mock.Anything, int64(5)).
		Return(&models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusExpired}, nil)

	_, err := svc.DeclineRequest(context.Background(), 1, 5, &models.DeclineRequestPayload{Reason: models.DeclineOther})

	assert.ErrorIs(t, err, services.ErrCannotDeclineRequest)
	requestRepo.AssertNotCalled(t, "UpdateDecline")
}

func TestCompleteRequest(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	svc := newMentoringService(requestRepo, new(MockSessionRepository), new(MockPersonRepository))

	scheduled := &models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusScheduled}
	completed := &models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusCompleted}

	requestRepo.On("GetByID", mock.Anything, int64(5)).Return(scheduled, nil).Once()
	requestRepo.On("UpdateStatus", mock.Anything, int64(5), models.RequestStatusCompleted).Return(nil)
	requestRepo.On("GetByID", mock.Anything, int64(5)).Return(completed, nil).Once()

	result, err := svc.CompleteRequest(context.Background(), 1, 5)

	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, result.Status)
}

func TestCompleteRequest_FromPending(t *testing.T) {
	requestRepo := new(MockMentoringRequestRepository)
	svc := newMentoringService(requestRepo, new(MockSessionRepository), new(MockPersonRepository))

	requestRepo.On("GetByID", mock.Anything, int64(5)).
		Return(&models.MentoringRequest{ID: 5, MentorID: 1, Status: models.RequestStatusPending}, nil)

	_, err := svc.CompleteRequest(context.Background(), 1, 5)

	assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)
}
