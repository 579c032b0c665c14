package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campushub/campushub-api/config"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/schedule"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/httpclient"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/campushub/campushub-api/pkg/metrics"
	"github.com/campushub/campushub-api/pkg/trigger"
	"go.uber.org/zap"
)

var (
	ErrAccessDenied            = errors.New("access denied")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrCannotDeclineRequest    = errors.New("cannot decline request")
	ErrInvalidRequestGroup     = errors.New("invalid request group")
)

// defaultSessionMinutes is the session length used when an accept payload
// omits the window
const defaultSessionMinutes = 60

// MentoringService handles the mentoring request lifecycle: filing,
// listing, accepting into a session and declining
type MentoringService struct {
	requestRepo repository.MentoringRequestDataSource
	sessionRepo repository.SessionDataSource
	personRepo  repository.PersonDataSource
	resolver    *schedule.Resolver
	config      *config.Config
	httpClient  httpclient.Client
}

// NewMentoringService creates a new MentoringService
func NewMentoringService(
	requestRepo repository.MentoringRequestDataSource,
	sessionRepo repository.SessionDataSource,
	personRepo repository.PersonDataSource,
	resolver *schedule.Resolver,
	cfg *config.Config,
	httpClient httpclient.Client,
) *MentoringService {
	return &MentoringService{
		requestRepo: requestRepo,
		sessionRepo: sessionRepo,
		personRepo:  personRepo,
		resolver:    resolver,
		config:      cfg,
		httpClient:  httpClient,
	}
}

// CreateRequest files a new mentoring request. The expiry timestamp is
// derived from the preferred time at creation and never recomputed.
func (s *MentoringService) CreateRequest(ctx context.Context, payload *models.CreateMentoringRequestPayload) (*models.MentoringRequest, error) {
	if _, err := s.personRepo.PersonIDForMentor(ctx, payload.MentorID); err != nil {
		return nil, err
	}

	request := &models.MentoringRequest{
		MentorID:      payload.MentorID,
		StudentName:   payload.StudentName,
		StudentEmail:  payload.StudentEmail,
		Topic:         payload.Topic,
		Description:   payload.Description,
		PreferredTime: payload.PreferredTime,
		ExpiryDate:    schedule.ComputeExpiry(payload.PreferredTime, s.config.Scheduling.ExpiryLead),
		Status:        models.RequestStatusPending,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		logger.Error("Failed to create mentoring request",
			zap.Int64("mentor_id", payload.MentorID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	metrics.MentoringRequestsCreated.WithLabelValues(string(request.Status)).Inc()

	logger.Info("Mentoring request created",
		zap.Int64("request_id", request.ID),
		zap.Int64("mentor_id", request.MentorID),
		zap.Time("preferred_time", request.PreferredTime),
		zap.Time("expiry_date", request.ExpiryDate))

	trigger.CallAsync(s.config.EventTriggers.RequestCreatedTriggerURL, strconv.FormatInt(request.ID, 10), s.httpClient)

	return request, nil
}

// GetRequests retrieves a mentor's requests filtered by group
func (s *MentoringService) GetRequests(ctx context.Context, mentorID int64, group string) (*models.MentoringRequestsResponse, error) {
	statuses := models.RequestGroup(group).GetStatuses()
	if statuses == nil {
		return nil, ErrInvalidRequestGroup
	}

	requests, err := s.requestRepo.GetByMentor(ctx, mentorID, statuses)
	if err != nil {
		logger.Error("Failed to fetch requests",
			zap.Int64("mentor_id", mentorID),
			zap.String("group", group),
			zap.Error(err))
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	responseRequests := make([]models.MentoringRequest, 0, len(requests))
	for _, req := range requests {
		responseRequests = append(responseRequests, *req)
	}

	return &models.MentoringRequestsResponse{
		Requests: responseRequests,
		Total:    len(responseRequests),
	}, nil
}

// GetRequestByID retrieves a single request and verifies mentor ownership
func (s *MentoringService) GetRequestByID(ctx context.Context, mentorID int64, requestID int64) (*models.MentoringRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.MentorID != mentorID {
		logger.Warn("Access denied to request",
			zap.Int64("request_id", requestID),
			zap.Int64("request_mentor", request.MentorID),
			zap.Int64("requesting_mentor", mentorID))
		return nil, ErrAccessDenied
	}

	return request, nil
}

// AcceptRequest accepts a pending request and schedules its session. When
// the payload omits the window the session lands on the preferred time for
// one hour. The conflict check and both writes share one transaction, so a
// request never ends up scheduled without its session.
func (s *MentoringService) AcceptRequest(ctx context.Context, mentorID int64, requestID int64, payload *models.AcceptRequestPayload) (*models.MentoringSession, error) {
	request, err := s.GetRequestByID(ctx, mentorID, requestID)
	if err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(models.RequestStatusScheduled) {
		logger.Warn("Invalid status transition",
			zap.Int64("request_id", requestID),
			zap.String("from_status", string(request.Status)),
			zap.String("to_status", string(models.RequestStatusScheduled)))
		return nil, fmt.Errorf("%w: cannot transition from '%s' to '%s'", ErrInvalidStatusTransition, request.Status, models.RequestStatusScheduled)
	}

	session, err := sessionFromAccept(request, payload)
	if err != nil {
		return nil, err
	}

	personID, err := s.personRepo.PersonIDForMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	check := conflictCheck(s.resolver, schedule.SubsystemMentoring, session.Window(), 0)

	if err := s.sessionRepo.CreateChecked(ctx, personID, session, &requestID, check); err != nil {
		logger.Error("Failed to accept request",
			zap.Int64("request_id", requestID),
			zap.Error(err))
		return nil, err
	}

	metrics.MentoringRequestsStatusUpdates.WithLabelValues(
		string(models.RequestStatusPending), string(models.RequestStatusScheduled)).Inc()

	logger.Info("Request accepted",
		zap.Int64("request_id", requestID),
		zap.Int64("session_id", session.ID),
		zap.String("window", session.Window().String()))

	return session, nil
}

// DeclineRequest declines a pending request with reason
func (s *MentoringService) DeclineRequest(ctx context.Context, mentorID int64, requestID int64, payload *models.DeclineRequestPayload) (*models.MentoringRequest, error) {
	request, err := s.GetRequestByID(ctx, mentorID, requestID)
	if err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(models.RequestStatusDeclined) {
		logger.Warn("Cannot decline request",
			zap.Int64("request_id", requestID),
			zap.String("status", string(request.Status)))
		return nil, fmt.Errorf("%w: request with status '%s' cannot be declined", ErrCannotDeclineRequest, request.Status)
	}

	if err := s.requestRepo.UpdateDecline(ctx, requestID, payload.Reason, payload.Comment); err != nil {
		logger.Error("Failed to decline request",
			zap.Int64("request_id", requestID),
			zap.Error(err))
		return nil, err
	}

	metrics.MentoringRequestsDeclines.WithLabelValues(string(payload.Reason)).Inc()

	logger.Info("Request declined",
		zap.Int64("request_id", requestID),
		zap.String("reason", string(payload.Reason)))

	trigger.CallAsync(s.config.EventTriggers.RequestFinishedTriggerURL, strconv.FormatInt(requestID, 10), s.httpClient)

	return s.requestRepo.GetByID(ctx, requestID)
}

// CompleteRequest marks a scheduled request as completed after the session
// happened
func (s *MentoringService) CompleteRequest(ctx context.Context, mentorID int64, requestID int64) (*models.MentoringRequest, error) {
	request, err := s.GetRequestByID(ctx, mentorID, requestID)
	if err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(models.RequestStatusCompleted) {
		return nil, fmt.Errorf("%w: cannot transition from '%s' to '%s'", ErrInvalidStatusTransition, request.Status, models.RequestStatusCompleted)
	}

	if err := s.requestRepo.UpdateStatus(ctx, requestID, models.RequestStatusCompleted); err != nil {
		logger.Error("Failed to complete request",
			zap.Int64("request_id", requestID),
			zap.Error(err))
		return nil, err
	}

	metrics.MentoringRequestsStatusUpdates.WithLabelValues(
		string(request.Status), string(models.RequestStatusCompleted)).Inc()

	trigger.CallAsync(s.config.EventTriggers.RequestFinishedTriggerURL, strconv.FormatInt(requestID, 10), s.httpClient)

	return s.requestRepo.GetByID(ctx, requestID)
}

// sessionFromAccept builds the session record an accept produces. Either
// every window field is present in the payload or none is.
func sessionFromAccept(request *models.MentoringRequest, payload *models.AcceptRequestPayload) (*models.MentoringSession, error) {
	session := &models.MentoringSession{
		MentorID: request.MentorID,
		Status:   schedule.StatusScheduled,
	}

	if payload == nil || payload.Date == "" {
		if payload != nil && (payload.StartTime != "" || payload.EndTime != "") {
			return nil, apperrors.InvalidInputError("date", "date is required when startTime or endTime is set")
		}
		start := schedule.TimeOfDay(request.PreferredTime.Hour()*60 + request.PreferredTime.Minute())
		end := start + defaultSessionMinutes
		if end > 24*60 {
			end = 24 * 60
		}
		session.Date = request.PreferredTime
		session.StartTime = start
		session.EndTime = end
		return session, nil
	}

	if payload.StartTime == "" || payload.EndTime == "" {
		return nil, apperrors.InvalidInputError("startTime", "startTime and endTime are required when date is set")
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return nil, apperrors.InvalidInputError("date", fmt.Sprintf("'%s' is not a valid date", payload.Date))
	}
	start, err := schedule.ParseTimeOfDay(payload.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseTimeOfDay(payload.EndTime)
	if err != nil {
		return nil, err
	}

	session.Date = date
	session.StartTime = start
	session.EndTime = end
	return session, nil
}

// conflictCheck wraps the resolver into the closure the write repositories
// run inside their transaction. Exclusion is scoped to the subsystem: session
// and booking ids come from separate sequences and may collide.
func conflictCheck(resolver *schedule.Resolver, subsystem schedule.Subsystem, proposed schedule.Window, excludeID int64) repository.ConflictCheck {
	return func(existing []schedule.Commitment) error {
		if excludeID != 0 {
			kept := make([]schedule.Commitment, 0, len(existing))
			for _, c := range existing {
				if c.ID == excludeID && c.Subsystem == subsystem {
					continue
				}
				kept = append(kept, c)
			}
			existing = kept
		}

		conflict, err := resolver.Check(existing, proposed, 0)
		if err != nil {
			metrics.ConflictChecksTotal.WithLabelValues(string(subsystem), "invalid").Inc()
			return err
		}
		if conflict != nil {
			metrics.ConflictChecksTotal.WithLabelValues(string(subsystem), "conflict").Inc()
			return apperrors.ConflictError(conflict.Message())
		}
		metrics.ConflictChecksTotal.WithLabelValues(string(subsystem), "clear").Inc()
		return nil
	}
}
