package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RequestStatus represents the status of a mentoring request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusScheduled RequestStatus = "scheduled"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusDeclined  RequestStatus = "declined"
	RequestStatusExpired   RequestStatus = "expired"
)

// ActiveRequestStatuses are statuses shown on the active requests page
var ActiveRequestStatuses = []RequestStatus{RequestStatusPending, RequestStatusScheduled}

// PastRequestStatuses are statuses shown on the past requests page
var PastRequestStatuses = []RequestStatus{RequestStatusCompleted, RequestStatusDeclined, RequestStatusExpired}

// IsTerminalStatus returns true if the status is terminal (no further transitions allowed)
func (s RequestStatus) IsTerminalStatus() bool {
	return s == RequestStatusCompleted || s == RequestStatusDeclined || s == RequestStatusExpired
}

// CanTransitionTo checks if a status transition is valid. Expiry only ever
// applies to pending requests; scheduled and terminal requests are immune.
func (s RequestStatus) CanTransitionTo(newStatus RequestStatus) bool {
	if s.IsTerminalStatus() {
		return false
	}

	switch s {
	case RequestStatusPending:
		return newStatus == RequestStatusScheduled || newStatus == RequestStatusDeclined || newStatus == RequestStatusExpired
	case RequestStatusScheduled:
		return newStatus == RequestStatusCompleted
	default:
		return false
	}
}

// DeclineReason represents predefined decline reasons
type DeclineReason string

const (
	DeclineNoTime        DeclineReason = "no_time"
	DeclineTopicMismatch DeclineReason = "topic_mismatch"
	DeclineOnBreak       DeclineReason = "on_break"
	DeclineOther         DeclineReason = "other"
)

// MentoringRequest is a student's request for a mentoring session.
// ExpiryDate is always PreferredTime minus the configured lead; the sweep
// moves pending requests past it to expired.
type MentoringRequest struct {
	ID              int64         `json:"id"`
	MentorID        int64         `json:"mentorId"`
	StudentName     string        `json:"studentName"`
	StudentEmail    string        `json:"studentEmail"`
	Topic           string        `json:"topic"`
	Description     string        `json:"description"`
	PreferredTime   time.Time     `json:"preferredTime"`
	ExpiryDate      time.Time     `json:"expiryDate"`
	Status          RequestStatus `json:"status"`
	DeclineReason   string        `json:"declineReason,omitempty"`
	DeclineComment  *string       `json:"declineComment,omitempty"`
	ManageToken     uuid.UUID     `json:"manageToken"`
	StatusChangedAt *time.Time    `json:"statusChangedAt"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// CreateMentoringRequestPayload is the payload for filing a request
type CreateMentoringRequestPayload struct {
	MentorID      int64     `json:"mentorId" binding:"required"`
	StudentName   string    `json:"studentName" binding:"required,max=200"`
	StudentEmail  string    `json:"studentEmail" binding:"required,email"`
	Topic         string    `json:"topic" binding:"required,max=200"`
	Description   string    `json:"description" binding:"max=2000"`
	PreferredTime time.Time `json:"preferredTime" binding:"required"`
}

// AcceptRequestPayload is the payload for accepting a request. When the
// session fields are omitted the session is scheduled at the request's
// preferred time for one hour.
type AcceptRequestPayload struct {
	Date      string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	StartTime string `json:"startTime" binding:"omitempty,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"omitempty,datetime=15:04"`
}

// DeclineRequestPayload is the payload for declining a request
type DeclineRequestPayload struct {
	Reason  DeclineReason `json:"reason" binding:"required,oneof=no_time topic_mismatch on_break other"`
	Comment string        `json:"comment" binding:"max=1000"`
}

// MentoringRequestsResponse is the response for listing requests
type MentoringRequestsResponse struct {
	Requests []MentoringRequest `json:"requests"`
	Total    int                `json:"total"`
}

// RequestGroup represents the type of requests to fetch
type RequestGroup string

const (
	RequestGroupActive RequestGroup = "active"
	RequestGroupPast   RequestGroup = "past"
)

// GetStatuses returns the statuses for a request group
func (g RequestGroup) GetStatuses() []RequestStatus {
	switch g {
	case RequestGroupActive:
		return ActiveRequestStatuses
	case RequestGroupPast:
		return PastRequestStatuses
	default:
		return nil
	}
}

// ScanMentoringRequest scans a single PostgreSQL row into a MentoringRequest.
// Expected columns: id, mentor_id, student_name, student_email, topic,
// description, preferred_time, expiry_date, status, decline_reason,
// decline_comment, manage_token, status_changed_at, created_at, updated_at
func ScanMentoringRequest(row pgx.Row) (*MentoringRequest, error) {
	var r MentoringRequest
	var description *string
	var declineReason *string
	var declineComment *string
	var statusChangedAt *time.Time

	err := row.Scan(
		&r.ID,
		&r.MentorID,
		&r.StudentName,
		&r.StudentEmail,
		&r.Topic,
		&description,
		&r.PreferredTime,
		&r.ExpiryDate,
		&r.Status,
		&declineReason,
		&declineComment,
		&r.ManageToken,
		&statusChangedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		r.Description = *description
	}
	if declineReason != nil {
		r.DeclineReason = *declineReason
	}
	r.DeclineComment = declineComment
	r.StatusChangedAt = statusChangedAt

	return &r, nil
}

// ScanMentoringRequests scans multiple rows into a slice of MentoringRequest
func ScanMentoringRequests(rows pgx.Rows) ([]*MentoringRequest, error) {
	defer rows.Close()

	requests := []*MentoringRequest{}
	for rows.Next() {
		request, err := ScanMentoringRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
