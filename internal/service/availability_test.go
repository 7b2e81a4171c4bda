package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 11 June 2025, 10:00 UTC.
var wednesday = time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

func newDirectory() *stubDirectory {
	return &stubDirectory{infos: map[uint64]RestaurantInfo{
		1: {ID: 1, Name: "Le Petit Zinc", Capacity: ptr(10), OpenTime: ptr("12:00"), CloseTime: ptr("23:00"), AveragePrice: ptr(45.0)},
		2: {ID: 2, Name: "No Limits"},
	}}
}

func checkerOptions(draw float64, checkHours bool) AvailabilityOptions {
	opts := DefaultAvailabilityOptions()
	opts.Location = time.UTC
	opts.CheckOpeningHours = checkHours
	opts.Now = fixedClock(wednesday)
	opts.Rand = func() float64 { return draw }
	return opts
}

func newChecker(dir RestaurantDirectory, draw float64, checkHours bool) *AvailabilityChecker {
	return NewAvailabilityChecker(dir, checkerOptions(draw, checkHours))
}

func check(t *testing.T, c *AvailabilityChecker, id uint64, dt string, guests int) (Availability, error) {
	t.Helper()
	return c.Check(context.Background(), AvailabilityRequest{RestaurantID: id, DateTime: dt, Guests: guests})
}

func TestCheck_Available(t *testing.T) {
	a, err := check(t, newChecker(newDirectory(), 0, false), 1, "2025-06-12T19:30:00", 4)
	require.NoError(t, err)
	assert.True(t, a.Available)
	assert.Equal(t, MsgAvailable, a.Message)
	assert.Equal(t, "Le Petit Zinc", a.RestaurantName)
	assert.Equal(t, ptr(10), a.Capacity)
	assert.Equal(t, ptr(45.0), a.PriceRange)
}

func TestCheck_AcceptsMinutePrecision(t *testing.T) {
	a, err := check(t, newChecker(newDirectory(), 0, false), 1, "2025-06-12T19:30", 2)
	require.NoError(t, err)
	assert.True(t, a.Available)
}

func TestCheck_ValidationErrors(t *testing.T) {
	c := newChecker(newDirectory(), 0, false)

	_, err := check(t, c, 1, "2025-06-12T19:30:00", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = check(t, c, 1, "12/06/2025 19:30", 2)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = check(t, c, 1, "", 2)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheck_UnknownRestaurant(t *testing.T) {
	_, err := check(t, newChecker(newDirectory(), 0, false), 99, "2025-06-12T19:30:00", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheck_CollaboratorFailureIsSurfaced(t *testing.T) {
	dir := newDirectory()
	dir.err = errBoom
	_, err := check(t, newChecker(dir, 0, false), 1, "2025-06-12T19:30:00", 2)
	assert.ErrorIs(t, err, ErrCollaborator)
	assert.ErrorIs(t, err, errBoom)
}

func TestCheck_OverCapacityIsNeverAvailable(t *testing.T) {
	c := newChecker(newDirectory(), 0, false)
	for guests := 11; guests <= 20; guests++ {
		a, err := check(t, c, 1, "2025-06-12T19:30:00", guests)
		require.NoError(t, err)
		assert.False(t, a.Available)
		assert.Equal(t, MsgInsufficientCapacity, a.Message)
		assert.Empty(t, a.RestaurantName)
	}
}

func TestCheck_NilCapacityIsUnbounded(t *testing.T) {
	a, err := check(t, newChecker(newDirectory(), 0, false), 2, "2025-06-12T12:00:00", 20)
	require.NoError(t, err)
	assert.True(t, a.Available)
}

func TestCheck_MustBeStrictlyInTheFuture(t *testing.T) {
	c := newChecker(newDirectory(), 0, false)
	for _, dt := range []string{"2025-06-11T10:00:00", "2025-06-10T19:00:00"} {
		a, err := check(t, c, 1, dt, 2)
		require.NoError(t, err)
		assert.False(t, a.Available)
		assert.Equal(t, MsgNotInFuture, a.Message)
	}
}

func TestCheck_CapacityIsCheckedBeforeTime(t *testing.T) {
	a, err := check(t, newChecker(newDirectory(), 0, false), 1, "2025-06-10T19:00:00", 15)
	require.NoError(t, err)
	assert.Equal(t, MsgInsufficientCapacity, a.Message)
}

func TestCheck_LateEvening(t *testing.T) {
	c := newChecker(newDirectory(), 0, false)
	a, err := check(t, c, 1, "2025-06-12T22:00:00", 2)
	require.NoError(t, err)
	assert.False(t, a.Available)
	assert.Equal(t, MsgNoAvailability, a.Message)

	a, err = check(t, c, 1, "2025-06-12T21:59:00", 2)
	require.NoError(t, err)
	assert.True(t, a.Available)
}

func TestCheck_ZeroSettingsAreHonoured(t *testing.T) {
	opts := checkerOptions(0.1, false)
	opts.WeekendProbability = 0
	a, err := check(t, NewAvailabilityChecker(newDirectory(), opts), 1, "2025-06-14T12:00:00", 2)
	require.NoError(t, err)
	assert.False(t, a.Available)
	assert.Equal(t, MsgNoAvailability, a.Message)

	opts = checkerOptions(0, false)
	opts.ClosingHour = 0
	a, err = check(t, NewAvailabilityChecker(newDirectory(), opts), 1, "2025-06-12T12:00:00", 2)
	require.NoError(t, err)
	assert.False(t, a.Available)
	assert.Equal(t, MsgNoAvailability, a.Message)
}

func TestCheck_WeekendUsesInjectedRandomness(t *testing.T) {
	saturday := "2025-06-14T13:00:00"

	a, err := check(t, newChecker(newDirectory(), 0.69, false), 1, saturday, 2)
	require.NoError(t, err)
	assert.True(t, a.Available)

	a, err = check(t, newChecker(newDirectory(), 0.7, false), 1, saturday, 2)
	require.NoError(t, err)
	assert.False(t, a.Available)
	assert.Equal(t, MsgNoAvailability, a.Message)

	a, err = check(t, newChecker(newDirectory(), 0.99, false), 1, "2025-06-13T13:00:00", 2)
	require.NoError(t, err)
	assert.True(t, a.Available, "weekdays ignore the draw")
}

func TestCheck_SeededRandIsDeterministic(t *testing.T) {
	run := func() []bool {
		opts := checkerOptions(0, false)
		opts.Rand = SeededRand(42)
		c := NewAvailabilityChecker(newDirectory(), opts)
		var out []bool
		for range 20 {
			a, err := check(t, c, 1, "2025-06-15T13:00:00", 2)
			require.NoError(t, err)
			out = append(out, a.Available)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestCheck_OpeningHoursWhenEnabled(t *testing.T) {
	a, err := check(t, newChecker(newDirectory(), 0, true), 1, "2025-06-12T11:00:00", 2)
	require.NoError(t, err)
	assert.False(t, a.Available)
	assert.Equal(t, MsgClosed, a.Message)

	a, err = check(t, newChecker(newDirectory(), 0, false), 1, "2025-06-12T11:00:00", 2)
	require.NoError(t, err)
	assert.True(t, a.Available)
}

func TestParseAndFormatDateTime(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	got, err := ParseDateTime("2025-06-12T19:30:00", paris)
	require.NoError(t, err)
	assert.Equal(t, 17, got.UTC().Hour())
	assert.Equal(t, "2025-06-12T19:30:00", FormatDateTime(got, paris))

	got, err = ParseDateTime("2025-06-12T17:30:00Z", paris)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-12T19:30:00", FormatDateTime(got, paris))
}
