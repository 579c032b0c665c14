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
	"go.uber.org/zap"
)

// SessionService handles mentoring sessions scheduled directly, outside the
// request flow, plus rescheduling and cancellation of any session
type SessionService struct {
	sessionRepo repository.SessionDataSource
	personRepo  repository.PersonDataSource
	resolver    *schedule.Resolver
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessionRepo repository.SessionDataSource,
	personRepo repository.PersonDataSource,
	resolver *schedule.Resolver,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		personRepo:  personRepo,
		resolver:    resolver,
	}
}

// CreateSession schedules a session directly for a mentor
func (s *SessionService) CreateSession(ctx context.Context, payload *models.CreateSessionPayload) (*models.MentoringSession, error) {
	personID, err := s.personRepo.PersonIDForMentor(ctx, payload.MentorID)
	if err != nil {
		return nil, err
	}

	date, start, end, err := parseOccurrence(payload.Date, payload.StartTime, payload.EndTime)
	if err != nil {
		return nil, err
	}

	session := &models.MentoringSession{
		MentorID:  payload.MentorID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    schedule.StatusScheduled,
	}

	check := conflictCheck(s.resolver, schedule.SubsystemMentoring, session.Window(), 0)

	if err := s.sessionRepo.CreateChecked(ctx, personID, session, nil, check); err != nil {
		logger.Error("Failed to create session",
			zap.Int64("mentor_id", payload.MentorID),
			zap.Error(err))
		return nil, err
	}

	logger.Info("Session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("mentor_id", session.MentorID),
		zap.String("window", session.Window().String()))

	return session, nil
}

// RescheduleSession moves an existing session to a new window. The session's
// own slot is excluded from the conflict check so moving within it works.
func (s *SessionService) RescheduleSession(ctx context.Context, sessionID int64, payload *models.RescheduleSessionPayload) (*models.MentoringSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: session with status '%s' cannot be rescheduled", ErrInvalidStatusTransition, session.Status)
	}

	personID, err := s.personRepo.PersonIDForMentor(ctx, session.MentorID)
	if err != nil {
		return nil, err
	}

	date, start, end, err := parseOccurrence(payload.Date, payload.StartTime, payload.EndTime)
	if err != nil {
		return nil, err
	}

	session.Date = date
	session.StartTime = start
	session.EndTime = end

	check := conflictCheck(s.resolver, schedule.SubsystemMentoring, session.Window(), sessionID)

	if err := s.sessionRepo.RescheduleChecked(ctx, personID, session, check); err != nil {
		logger.Error("Failed to reschedule session",
			zap.Int64("session_id", sessionID),
			zap.Error(err))
		return nil, err
	}

	logger.Info("Session rescheduled",
		zap.Int64("session_id", sessionID),
		zap.String("window", session.Window().String()))

	return session, nil
}

// ConfirmSession moves a scheduled session to confirmed
func (s *SessionService) ConfirmSession(ctx context.Context, sessionID int64) (*models.MentoringSession, error) {
	return s.transition(ctx, sessionID, schedule.StatusConfirmed)
}

// CompleteSession marks a session as completed
func (s *SessionService) CompleteSession(ctx context.Context, sessionID int64) (*models.MentoringSession, error) {
	return s.transition(ctx, sessionID, schedule.StatusCompleted)
}

// CancelSession cancels a session, releasing its window
func (s *SessionService) CancelSession(ctx context.Context, sessionID int64) (*models.MentoringSession, error) {
	return s.transition(ctx, sessionID, schedule.StatusCancelled)
}

// GetSession fetches a single session
func (s *SessionService) GetSession(ctx context.Context, sessionID int64) (*models.MentoringSession, error) {
	return s.sessionRepo.GetByID(ctx, sessionID)
}

func (s *SessionService) transition(ctx context.Context, sessionID int64, next schedule.Status) (*models.MentoringSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.Status.CanTransitionTo(next) {
		logger.Warn("Invalid session status transition",
			zap.Int64("session_id", sessionID),
			zap.String("from_status", string(session.Status)),
			zap.String("to_status", string(next)))
		return nil, fmt.Errorf("%w: cannot transition from '%s' to '%s'", ErrInvalidStatusTransition, session.Status, next)
	}

	if err := s.sessionRepo.UpdateStatus(ctx, sessionID, next); err != nil {
		logger.Error("Failed to update session status",
			zap.Int64("session_id", sessionID),
			zap.Error(err))
		return nil, err
	}

	logger.Info("Session status updated",
		zap.Int64("session_id", sessionID),
		zap.String("from_status", string(session.Status)),
		zap.String("to_status", string(next)))

	session.Status = next
	return session, nil
}

// parseOccurrence parses a date plus start/end clock times from payload
// strings into the types the models carry
func parseOccurrence(dateStr, startStr, endStr string) (time.Time, schedule.TimeOfDay, schedule.TimeOfDay, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, 0, 0, apperrors.InvalidInputError("date", fmt.Sprintf("'%s' is not a valid date", dateStr))
	}
	start, err := schedule.ParseTimeOfDay(startStr)
	if err != nil {
		return time.Time{}, 0, 0, err
	}
	end, err := schedule.ParseTimeOfDay(endStr)
	if err != nil {
		return time.Time{}, 0, 0, err
	}
	return date, start, end, nil
}
