package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeExpiry(t *testing.T) {
	preferred := time.Date(2025, 11, 2, 14, 0, 0, 0, time.UTC)

	expiry := ComputeExpiry(preferred, 3*time.Hour)
	assert.Equal(t, time.Date(2025, 11, 2, 11, 0, 0, 0, time.UTC), expiry)
}

func TestComputeExpiry_DefaultLead(t *testing.T) {
	preferred := time.Date(2025, 11, 2, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, preferred.Add(-DefaultExpiryLead), ComputeExpiry(preferred, 0))
	assert.Equal(t, preferred.Add(-DefaultExpiryLead), ComputeExpiry(preferred, -time.Hour))
}

func TestComputeExpiry_NoFloorAtNow(t *testing.T) {
	// A request filed less than the lead before its preferred time gets an
	// expiry in the past; the next sweep picks it up immediately.
	preferred := time.Now().Add(time.Hour)

	expiry := ComputeExpiry(preferred, 3*time.Hour)
	assert.True(t, expiry.Before(time.Now()))
}
