package models

import (
	"time"

	"github.com/campushub/campushub-api/internal/schedule"
	"github.com/jackc/pgx/v5"
)

// TutorAvailability is a tutor's weekly offering window, independent of any
// single booking. DayOfWeek follows the 0=Sunday convention.
type TutorAvailability struct {
	ID        int64              `json:"id"`
	TutorID   int64              `json:"tutorId"`
	DayOfWeek int                `json:"dayOfWeek"`
	StartTime schedule.TimeOfDay `json:"startTime"`
	EndTime   schedule.TimeOfDay `json:"endTime"`
	Recurring bool               `json:"recurring"`
	Active    bool               `json:"active"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Window returns the slot's weekly occurrence for conflict checking
func (a *TutorAvailability) Window() schedule.Window {
	return schedule.NewRecurringWindow(time.Weekday(a.DayOfWeek), a.StartTime, a.EndTime)
}

// TutoringBooking is a student's booking against a tutor's availability
// slot. The paid/completed counters feed the payments surface, which only
// reads them here.
type TutoringBooking struct {
	ID                int64              `json:"id"`
	TutorID           int64              `json:"tutorId"`
	AvailabilityID    int64              `json:"availabilityId"`
	StudentName       string             `json:"studentName"`
	StudentEmail      string             `json:"studentEmail"`
	Date              time.Time          `json:"date"`
	StartTime         schedule.TimeOfDay `json:"startTime"`
	EndTime           schedule.TimeOfDay `json:"endTime"`
	Status            schedule.Status    `json:"status"`
	SessionsPaid      int                `json:"sessionsPaid"`
	SessionsCompleted int                `json:"sessionsCompleted"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Window returns the booking's occurrence for conflict checking
func (b *TutoringBooking) Window() schedule.Window {
	return schedule.NewDateWindow(b.Date, b.StartTime, b.EndTime)
}

// CreateAvailabilityPayload is the payload for opening a weekly slot.
// DayOfWeek is a pointer so Sunday (0) survives required-field validation.
type CreateAvailabilityPayload struct {
	TutorID   int64  `json:"tutorId" binding:"required"`
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
	Recurring bool   `json:"recurring"`
}

// UpdateAvailabilityPayload is the payload for moving or closing a slot
type UpdateAvailabilityPayload struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
	Active    *bool  `json:"active" binding:"required"`
}

// CreateBookingPayload is the payload for booking a slot occurrence
type CreateBookingPayload struct {
	TutorID        int64  `json:"tutorId" binding:"required"`
	AvailabilityID int64  `json:"availabilityId" binding:"required"`
	StudentName    string `json:"studentName" binding:"required,max=200"`
	StudentEmail   string `json:"studentEmail" binding:"required,email"`
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime      string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime        string `json:"endTime" binding:"required,datetime=15:04"`
	SessionsPaid   int    `json:"sessionsPaid" binding:"min=0"`
}

// RescheduleBookingPayload is the payload for moving an existing booking
type RescheduleBookingPayload struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
}

// ScanTutorAvailability scans a single row into a TutorAvailability.
// Expected columns: id, tutor_id, day_of_week, start_minutes, end_minutes,
// recurring, active, created_at, updated_at
func ScanTutorAvailability(row pgx.Row) (*TutorAvailability, error) {
	var a TutorAvailability
	var startMinutes, endMinutes int

	err := row.Scan(
		&a.ID,
		&a.TutorID,
		&a.DayOfWeek,
		&startMinutes,
		&endMinutes,
		&a.Recurring,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime = schedule.TimeOfDay(startMinutes)
	a.EndTime = schedule.TimeOfDay(endMinutes)

	return &a, nil
}

// ScanTutorAvailabilities scans multiple rows into a slice
func ScanTutorAvailabilities(rows pgx.Rows) ([]*TutorAvailability, error) {
	defer rows.Close()

	slots := []*TutorAvailability{}
	for rows.Next() {
		slot, err := ScanTutorAvailability(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// ScanTutoringBooking scans a single row into a TutoringBooking.
// Expected columns: id, tutor_id, availability_id, student_name,
// student_email, booking_date, start_minutes, end_minutes, status,
// sessions_paid, sessions_completed, created_at, updated_at
func ScanTutoringBooking(row pgx.Row) (*TutoringBooking, error) {
	var b TutoringBooking
	var startMinutes, endMinutes int

	err := row.Scan(
		&b.ID,
		&b.TutorID,
		&b.AvailabilityID,
		&b.StudentName,
		&b.StudentEmail,
		&b.Date,
		&startMinutes,
		&endMinutes,
		&b.Status,
		&b.SessionsPaid,
		&b.SessionsCompleted,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.StartTime = schedule.TimeOfDay(startMinutes)
	b.EndTime = schedule.TimeOfDay(endMinutes)

	return &b, nil
}
