package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToLocalConvertsToZone(t *testing.T) {
	utc := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)

	local := ToLocal(utc, DefaultZone)

	// Lima is UTC-5 year round.
	assert.Equal(t, 10, local.Hour())
	assert.True(t, local.Equal(utc))
}

func TestToLocalUnknownZoneFallsBackToUTC(t *testing.T) {
	utc := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)

	local := ToLocal(utc, "Not/AZone")

	assert.Equal(t, time.UTC, local.Location())
	assert.True(t, local.Equal(utc))
}
