package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Dhaka has no DST, so a fixed zone is an exact stand-in for Asia/Dhaka.
var dhaka = time.FixedZone("BST", 6*3600)

func allDays(rule Rule) OpeningHours {
	h := OpeningHours{}
	for _, d := range []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday} {
		h[d] = rule
	}
	return h
}

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, dhaka)
}

func TestBuildSlots_FullDayHourly(t *testing.T) {
	hours := allDays(Rule{Open: "10:00", Close: "22:00"})
	date := localDate(2025, time.March, 14)

	slots := BuildSlots(hours, 60, date, dhaka)
	require.Len(t, slots, 12)

	assert.Equal(t, time.Date(2025, time.March, 14, 10, 0, 0, 0, dhaka), slots[0].Start)
	assert.Equal(t, time.Date(2025, time.March, 14, 22, 0, 0, 0, dhaka), slots[11].End)

	for i, s := range slots {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start), "slot %d length", i)
		if i > 0 {
			assert.Equal(t, slots[i-1].End, s.Start, "slot %d must be consecutive", i)
		}
	}
}

func TestBuildSlots_ClosedDay(t *testing.T) {
	hours := allDays(Rule{Open: "10:00", Close: "22:00", Closed: true})
	assert.Empty(t, BuildSlots(hours, 60, localDate(2025, time.March, 14), dhaka))
}

func TestBuildSlots_MissingRuleIsClosed(t *testing.T) {
	hours := OpeningHours{Monday: {Open: "09:00", Close: "17:00"}}
	// 2025-03-14 is a Friday
	assert.Empty(t, BuildSlots(hours, 60, localDate(2025, time.March, 14), dhaka))
}

func TestBuildSlots_Overnight(t *testing.T) {
	hours := allDays(Rule{Open: "22:00", Close: "02:00"})
	slots := BuildSlots(hours, 60, localDate(2025, time.March, 14), dhaka)
	require.Len(t, slots, 4)

	assert.Equal(t, time.Date(2025, time.March, 14, 22, 0, 0, 0, dhaka), slots[0].Start)
	assert.Equal(t, time.Date(2025, time.March, 15, 2, 0, 0, 0, dhaka), slots[3].End)
}

func TestBuildSlots_OpenEqualsCloseIsFullDay(t *testing.T) {
	hours := allDays(Rule{Open: "08:00", Close: "08:00"})
	slots := BuildSlots(hours, 60, localDate(2025, time.March, 14), dhaka)
	assert.Len(t, slots, 24)
}

func TestBuildSlots_RemainderDropped(t *testing.T) {
	// 10:00–12:30 with 60-minute slots: the 12:00–12:30 tail is dropped,
	// not shortened.
	hours := allDays(Rule{Open: "10:00", Close: "12:30"})
	slots := BuildSlots(hours, 60, localDate(2025, time.March, 14), dhaka)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, time.March, 14, 12, 0, 0, 0, dhaka), slots[1].End)
}

func TestBuildSlots_DurationLongerThanWindow(t *testing.T) {
	hours := allDays(Rule{Open: "10:00", Close: "11:00"})
	assert.Empty(t, BuildSlots(hours, 90, localDate(2025, time.March, 14), dhaka))
}

func TestBuildSlots_Deterministic(t *testing.T) {
	hours := allDays(Rule{Open: "06:00", Close: "23:00"})
	date := localDate(2025, time.July, 1)

	first := BuildSlots(hours, 90, date, dhaka)
	second := BuildSlots(hours, 90, date, dhaka)
	assert.Equal(t, first, second)
}

func TestBuildSlots_WeekdayFollowsLocalMidnight(t *testing.T) {
	// 2025-03-14T23:00:00Z is already Saturday the 15th in Dhaka.
	hours := OpeningHours{Saturday: {Open: "10:00", Close: "12:00"}}
	utcEvening := time.Date(2025, time.March, 14, 23, 0, 0, 0, time.UTC)

	slots := BuildSlots(hours, 60, utcEvening, dhaka)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, time.March, 15, 10, 0, 0, 0, dhaka), slots[0].Start)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 9, Minute: 30}, c)

	for _, bad := range []string{"9:30", "24:00", "10:60", "banana", "10", "10:3a"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestOpeningHoursValidate(t *testing.T) {
	ok := OpeningHours{
		Monday:  {Open: "10:00", Close: "22:00"},
		Tuesday: {Open: "whatever", Close: "22:00", Closed: true}, // closed days are not parsed
	}
	assert.NoError(t, ok.Validate())

	bad := OpeningHours{Monday: {Open: "10:0", Close: "22:00"}}
	assert.Error(t, bad.Validate())
}

func TestOverlaps_HalfOpen(t *testing.T) {
	ten := time.Date(2025, time.March, 14, 10, 0, 0, 0, dhaka)
	eleven := ten.Add(time.Hour)
	twelve := eleven.Add(time.Hour)

	assert.True(t, Overlaps(ten, twelve, eleven, twelve))
	assert.True(t, Overlaps(ten, eleven, ten.Add(30*time.Minute), twelve))
	// shared boundary is not an overlap
	assert.False(t, Overlaps(ten, eleven, eleven, twelve))
	assert.False(t, Overlaps(eleven, twelve, ten, eleven))
}
