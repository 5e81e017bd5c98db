package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessNow_RelabelsBogotaWallClockAsUTC(t *testing.T) {
	instant := time.Date(2025, 3, 10, 2, 30, 15, 987654321, time.UTC)
	c := New(DefaultZone).WithNow(func() time.Time { return instant })

	got := c.BusinessNow()

	assert.Equal(t, time.Date(2025, 3, 9, 21, 30, 15, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, instant, c.Now())
}

func TestNew_FallsBackToFixedOffset(t *testing.T) {
	c := New("Nowhere/Invalid")
	instant := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	got := c.WithNow(func() time.Time { return instant }).BusinessNow()

	assert.Equal(t, time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC), got)
}

func TestDays_InclusiveBounds(t *testing.T) {
	start, err := ParseDay("2025-02-01")
	require.NoError(t, err)
	end, err := ParseDay("2025-02-03")
	require.NoError(t, err)

	r := Days(start, end)

	assert.True(t, r.Contains(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2025, 2, 3, 23, 59, 59, int(999*time.Millisecond), time.UTC)))
	assert.False(t, r.Contains(r.Start.Add(-time.Microsecond)))
	assert.False(t, r.Contains(r.End.Add(time.Microsecond)))
}

func TestParseDay_RejectsGarbage(t *testing.T) {
	_, err := ParseDay("02/01/2025")
	require.Error(t, err)
}
