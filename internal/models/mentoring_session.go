package models

import (
	"time"

	"github.com/campushub/campushub-api/internal/schedule"
	"github.com/jackc/pgx/v5"
)

// MentoringSession is a scheduled meeting between a mentor and a student.
// Sessions created from a request keep a link to it.
type MentoringSession struct {
	ID        int64              `json:"id"`
	MentorID  int64              `json:"mentorId"`
	RequestID *int64             `json:"requestId,omitempty"`
	Date      time.Time          `json:"date"`
	StartTime schedule.TimeOfDay `json:"startTime"`
	EndTime   schedule.TimeOfDay `json:"endTime"`
	Status    schedule.Status    `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Window returns the session's occurrence for conflict checking
func (s *MentoringSession) Window() schedule.Window {
	return schedule.NewDateWindow(s.Date, s.StartTime, s.EndTime)
}

// CreateSessionPayload is the payload for scheduling a session directly
type CreateSessionPayload struct {
	MentorID  int64  `json:"mentorId" binding:"required"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
}

// RescheduleSessionPayload is the payload for moving an existing session
type RescheduleSessionPayload struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
}

// ScanMentoringSession scans a single row into a MentoringSession.
// Expected columns: id, mentor_id, request_id, session_date, start_minutes,
// end_minutes, status, created_at, updated_at
func ScanMentoringSession(row pgx.Row) (*MentoringSession, error) {
	var s MentoringSession
	var startMinutes, endMinutes int

	err := row.Scan(
		&s.ID,
		&s.MentorID,
		&s.RequestID,
		&s.Date,
		&startMinutes,
		&endMinutes,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.StartTime = schedule.TimeOfDay(startMinutes)
	s.EndTime = schedule.TimeOfDay(endMinutes)

	return &s, nil
}
