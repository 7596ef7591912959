package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcSlot(t *testing.T, date, start, end string) Slot {
	t.Helper()
	s, err := time.Parse("2006-01-02 15:04", date+" "+start)
	require.NoError(t, err)
	e, err := time.Parse("2006-01-02 15:04", date+" "+end)
	require.NoError(t, err)
	return Slot{Start: s.UTC(), End: e.UTC()}
}

func TestOverlapSameTimezone(t *testing.T) {
	a := Party{Location: time.UTC, Hours: "09:00-17:00"}
	b := Party{Location: time.UTC, Hours: "13:00-21:00"}

	slots, err := Overlap("2024-03-11", a, b)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, utcSlot(t, "2024-03-11", "13:00", "17:00"), slots[0])
}

func TestNoOverlap(t *testing.T) {
	a := Party{Location: time.UTC, Hours: "06:00-09:00"}
	b := Party{Location: time.UTC, Hours: "14:00-18:00"}

	_, err := Overlap("2024-03-11", a, b)
	assert.ErrorIs(t, err, ErrNoOverlap)
}

func TestOverlapAcrossTimezones(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Mid-January: New York is UTC-5, so 09:00-17:00 local is
	// 14:00-22:00 UTC.
	a := Party{Location: time.UTC, Hours: "09:00-17:00"}
	b := Party{Location: ny, Hours: "09:00-17:00"}

	slots, err := Overlap("2024-01-15", a, b)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, utcSlot(t, "2024-01-15", "14:00", "17:00"), slots[0])
}

func TestBlockedIntervalSplitsWindow(t *testing.T) {
	a := Party{Location: time.UTC, Hours: "09:00-17:00", Blocked: []Block{{Start: "12:00", End: "13:00"}}}
	b := Party{Location: time.UTC, Hours: "10:00-18:00"}

	slots, err := Overlap("2024-03-11", a, b)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// Longest slot first, earliest breaking ties.
	assert.Equal(t, utcSlot(t, "2024-03-11", "13:00", "17:00"), slots[0])
	assert.Equal(t, utcSlot(t, "2024-03-11", "10:00", "12:00"), slots[1])
}

func TestBlockCoveringEverythingMeansNoOverlap(t *testing.T) {
	a := Party{Location: time.UTC, Hours: "09:00-12:00"}
	b := Party{
		Location: time.UTC,
		Hours:    "09:00-12:00",
		Blocked:  []Block{{Start: "08:00", End: "13:00"}},
	}

	_, err := Overlap("2024-03-11", a, b)
	assert.ErrorIs(t, err, ErrNoOverlap)
}

func TestDefaultsAppliedWhenPartyIncomplete(t *testing.T) {
	// Nil location falls back to UTC, empty hours to the default window.
	a := Party{}
	b := Party{Location: time.UTC, Hours: "13:00-21:00"}

	slots, err := Overlap("2024-03-11", a, b)
	require.NoError(t, err)
	assert.Equal(t, utcSlot(t, "2024-03-11", "13:00", "17:00"), slots[0])
}

func TestInvalidInputs(t *testing.T) {
	_, err := Overlap("11-03-2024", Party{}, Party{})
	assert.Error(t, err)

	_, err = Overlap("2024-03-11", Party{Hours: "banana"}, Party{})
	assert.Error(t, err)

	_, err = Overlap("2024-03-11", Party{Hours: "17:00-09:00"}, Party{})
	assert.Error(t, err)
}

func TestParseHours(t *testing.T) {
	start, end, err := ParseHours("09:30-17:45")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, start)
	assert.Equal(t, 17*60+45, end)

	_, _, err = ParseHours("9am-5pm")
	assert.Error(t, err)
}
