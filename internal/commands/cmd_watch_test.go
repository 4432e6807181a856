package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay_growsAndCaps(t *testing.T) {
	base := time.Second
	max := 2 * time.Minute

	prevFloor := time.Duration(0)
	for attempt := 1; attempt <= 10; attempt++ {
		d := backoffDelay(attempt, base, max)

		// Delay is the doubled base plus at most 25% jitter.
		floor := base << (attempt - 1)
		if floor > max {
			floor = max
		}
		assert.GreaterOrEqual(t, d, floor, "attempt %d below floor", attempt)
		assert.LessOrEqual(t, d, floor+floor/4, "attempt %d above jitter ceiling", attempt)
		assert.GreaterOrEqual(t, floor, prevFloor, "floor must be monotonic")
		prevFloor = floor
	}
}

func TestBackoffDelay_zeroConfigUsesDefaults(t *testing.T) {
	d := backoffDelay(1, 0, 0)
	assert.GreaterOrEqual(t, d, time.Second)
	assert.LessOrEqual(t, d, time.Second+time.Second/4)
}
