package services

import (
	"context"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/schedule"
)

// ScheduleService answers advisory conflict previews against a person's
// current commitment set. The checked write paths do not go through here;
// they re-run the resolver inside their transactions.
type ScheduleService struct {
	commitmentRepo repository.CommitmentDataSource
	resolver       *schedule.Resolver
}

// NewScheduleService creates a new schedule service
func NewScheduleService(commitmentRepo repository.CommitmentDataSource, resolver *schedule.Resolver) *ScheduleService {
	return &ScheduleService{
		commitmentRepo: commitmentRepo,
		resolver:       resolver,
	}
}

// CheckConflicts reports whether the proposed window is free for the person
func (s *ScheduleService) CheckConflicts(ctx context.Context, payload *models.CheckConflictPayload) (*models.ConflictCheckResult, error) {
	date, start, end, err := parseOccurrence(payload.Date, payload.StartTime, payload.EndTime)
	if err != nil {
		return nil, err
	}

	existing, err := s.commitmentRepo.FindActiveCommitments(ctx, payload.PersonID)
	if err != nil {
		return nil, err
	}

	conflict, err := s.resolver.Check(existing, schedule.NewDateWindow(date, start, end), payload.ExcludeID)
	if err != nil {
		return nil, err
	}

	if conflict == nil {
		return &models.ConflictCheckResult{Available: true}, nil
	}

	return &models.ConflictCheckResult{
		Available: false,
		Conflict: &models.ConflictDetail{
			CommitmentID: conflict.Commitment.ID,
			Subsystem:    string(conflict.Commitment.Subsystem),
			Window:       conflict.Commitment.Window.String(),
		},
	}, nil
}
