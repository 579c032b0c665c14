package models

// CheckConflictPayload asks whether a person is free in a given window.
// ExcludeID skips one commitment, for previewing a reschedule.
type CheckConflictPayload struct {
	PersonID  int64  `json:"personId" binding:"required,min=1"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
	ExcludeID int64  `json:"excludeId" binding:"omitempty,min=1"`
}

// ConflictDetail describes the commitment a proposed window collided with
type ConflictDetail struct {
	CommitmentID int64  `json:"commitmentId"`
	Subsystem    string `json:"subsystem"`
	Window       string `json:"window"`
}

// ConflictCheckResult is the response for a conflict preview. Available is
// advisory only: the commitment set can change before the write lands, and
// the write re-checks inside its transaction.
type ConflictCheckResult struct {
	Available bool            `json:"available"`
	Conflict  *ConflictDetail `json:"conflict,omitempty"`
}
