package schedule

// Status is the closed set of commitment states shared by mentoring
// sessions and tutoring bookings
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusDeclined  Status = "declined"
	StatusExpired   Status = "expired"
)

// Terminal reports whether no further automatic transition may occur
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusDeclined, StatusExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a commitment status transition is valid.
// Terminal states are sticky.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}

	switch s {
	case StatusPending:
		return next == StatusScheduled || next == StatusConfirmed || next == StatusDeclined || next == StatusExpired || next == StatusCancelled
	case StatusScheduled:
		return next == StatusConfirmed || next == StatusCompleted || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}
