// Package schedule implements the availability conflict resolver and the
// request expiry computation shared by the mentoring and tutoring
// subsystems. It is pure: callers load a person's commitments through the
// repository layer and pass them in.
package schedule

import (
	"fmt"
)

// Subsystem identifies which side of the platform owns a commitment
type Subsystem string

const (
	SubsystemMentoring Subsystem = "mentoring"
	SubsystemTutoring  Subsystem = "tutoring"
)

// Commitment is one occupied (or potentially occupied) time range belonging
// to a person, in either subsystem.
type Commitment struct {
	ID        int64
	Subsystem Subsystem
	Status    Status
	Window    Window
}

// Conflict describes the commitment a proposed window collided with
type Conflict struct {
	Commitment Commitment
}

// Message renders a human-readable explanation naming the colliding
// subsystem and time range
func (c *Conflict) Message() string {
	return fmt.Sprintf("overlaps existing %s commitment (%s)", c.Commitment.Subsystem, c.Commitment.Window)
}

// Policy configures which statuses count as occupying for conflict checks.
// Scheduled and confirmed commitments always block; pending ones block only
// when PendingBlocks is set.
type Policy struct {
	PendingBlocks bool
}

// Resolver decides whether a proposed time window may coexist with a
// person's existing commitments across both subsystems.
type Resolver struct {
	policy Policy
}

// NewResolver creates a resolver with the given occupancy policy
func NewResolver(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

// occupying reports whether a commitment's status reserves its window
func (r *Resolver) occupying(s Status) bool {
	switch s {
	case StatusScheduled, StatusConfirmed:
		return true
	case StatusPending:
		return r.policy.PendingBlocks
	default:
		return false
	}
}

// Check tests a proposed window against a person's commitments. excludeID
// skips one commitment so reschedules do not collide with themselves; pass
// zero when creating. A nil Conflict means the proposal may proceed.
//
// Check has no side effects; atomicity of check-then-create is the
// repository layer's responsibility.
func (r *Resolver) Check(existing []Commitment, proposed Window, excludeID int64) (*Conflict, error) {
	if err := proposed.Validate(); err != nil {
		return nil, err
	}

	for _, c := range existing {
		if excludeID != 0 && c.ID == excludeID {
			continue
		}
		if !r.occupying(c.Status) {
			continue
		}
		if proposed.Overlaps(c.Window) {
			conflict := c
			return &Conflict{Commitment: conflict}, nil
		}
	}

	return nil, nil
}
