package services_test

import (
	"context"
	"time"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/schedule"
	"github.com/stretchr/testify/mock"
)

// MockPersonRepository is a mock implementation of PersonDataSource
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) PersonIDForMentor(ctx context.Context, mentorID int64) (int64, error) {
	args := m.Called(ctx, mentorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPersonRepository) PersonIDForTutor(ctx context.Context, tutorID int64) (int64, error) {
	args := m.Called(ctx, tutorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMentoringRequestRepository is a mock implementation of MentoringRequestDataSource
type MockMentoringRequestRepository struct {
	mock.Mock
}

func (m *MockMentoringRequestRepository) Create(ctx context.Context, req *models.MentoringRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockMentoringRequestRepository) GetByID(ctx context.Context, id int64) (*models.MentoringRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringRequest), args.Error(1)
}

func (m *MockMentoringRequestRepository) GetByMentor(ctx context.Context, mentorID int64, statuses []models.RequestStatus) ([]*models.MentoringRequest, error) {
	args := m.Called(ctx, mentorID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MentoringRequest), args.Error(1)
}

func (m *MockMentoringRequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockMentoringRequestRepository) UpdateDecline(ctx context.Context, id int64, reason models.DeclineReason, comment string) error {
	args := m.Called(ctx, id, reason, comment)
	return args.Error(0)
}

func (m *MockMentoringRequestRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepository is a mock implementation of SessionDataSource. The
// checked writes replay the conflict check against a canned commitment set
// so tests exercise the same closure production wiring runs in the
// transaction.
type MockSessionRepository struct {
	mock.Mock
	Existing []schedule.Commitment
}

func (m *MockSessionRepository) CreateChecked(ctx context.Context, personID int64, session *models.MentoringSession, requestID *int64, check repository.ConflictCheck) error {
	if err := check(m.Existing); err != nil {
		return err
	}
	args := m.Called(ctx, personID, session, requestID)
	return args.Error(0)
}

func (m *MockSessionRepository) RescheduleChecked(ctx context.Context, personID int64, session *models.MentoringSession, check repository.ConflictCheck) error {
	if err := check(m.Existing); err != nil {
		return err
	}
	args := m.Called(ctx, personID, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id int64) (*models.MentoringSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringSession), args.Error(1)
}

func (m *MockSessionRepository) UpdateStatus(ctx context.Context, id int64, status schedule.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockAvailabilityRepository is a mock implementation of AvailabilityDataSource
type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) Create(ctx context.Context, slot *models.TutorAvailability) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) Update(ctx context.Context, slot *models.TutorAvailability) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) GetByID(ctx context.Context, id int64) (*models.TutorAvailability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TutorAvailability), args.Error(1)
}

func (m *MockAvailabilityRepository) ListByTutor(ctx context.Context, tutorID int64, activeOnly bool) ([]*models.TutorAvailability, error) {
	args := m.Called(ctx, tutorID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TutorAvailability), args.Error(1)
}

// MockBookingRepository is a mock implementation of BookingDataSource
type MockBookingRepository struct {
	mock.Mock
	Existing []schedule.Commitment
}

func (m *MockBookingRepository) CreateChecked(ctx context.Context, personID int64, booking *models.TutoringBooking, check repository.ConflictCheck) error {
	if err := check(m.Existing); err != nil {
		return err
	}
	args := m.Called(ctx, personID, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) RescheduleChecked(ctx context.Context, personID int64, booking *models.TutoringBooking, check repository.ConflictCheck) error {
	if err := check(m.Existing); err != nil {
		return err
	}
	args := m.Called(ctx, personID, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*models.TutoringBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TutoringBooking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status schedule.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) MarkSessionCompleted(ctx context.Context, id int64) (*models.TutoringBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TutoringBooking), args.Error(1)
}

// MockCommitmentRepository is a mock implementation of CommitmentDataSource
type MockCommitmentRepository struct {
	mock.Mock
}

func (m *MockCommitmentRepository) FindActiveCommitments(ctx context.Context, personID int64) ([]schedule.Commitment, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.Commitment), args.Error(1)
}
