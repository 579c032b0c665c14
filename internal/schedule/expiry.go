package schedule

import "time"

// DefaultExpiryLead is how long before the preferred meeting time a pending
// mentoring request expires if the mentor has not acted on it.
const DefaultExpiryLead = 3 * time.Hour

// ComputeExpiry derives a request's expiry timestamp from its preferred
// meeting time. The result is deliberately not floored at "now": a request
// filed less than lead before its preferred time is already expired when the
// next sweep runs.
func ComputeExpiry(preferred time.Time, lead time.Duration) time.Time {
	if lead <= 0 {
		lead = DefaultExpiryLead
	}
	return preferred.Add(-lead)
}
