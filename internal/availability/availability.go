package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday keys match the JSON shape stored in venues.opening_hours.
type Weekday string

const (
	Sunday    Weekday = "SUN"
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
)

var weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf returns the weekday key for an instant as seen in the venue's
// local zone. The shift into loc happens before extracting the day so that
// date boundaries line up with local midnight, not UTC midnight.
func WeekdayOf(t time.Time, loc *time.Location) Weekday {
	return weekdays[int(t.In(loc).Weekday())]
}

// Rule is one day's opening-hours entry. Open and Close are "HH:MM" strings
// in the venue's local zone.
type Rule struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed,omitempty"`
}

// OpeningHours maps each weekday to its rule. Days without an entry are
// treated as closed.
type OpeningHours map[Weekday]Rule

// Clock is a local wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a strict "HH:MM" string. Venue configuration must pass
// through here so that malformed times are rejected at write time instead of
// surfacing during availability queries.
func ParseClock(s string) (Clock, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return Clock{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// clockOrMidnight is the lenient parse used while generating slots. A stored
// rule that somehow bypassed validation degrades to 00:00 rather than
// failing the read path, which is what the legacy system did.
func clockOrMidnight(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		return Clock{}
	}
	return c
}

// Validate checks every rule's open/close strings. It is called from the
// venue create/update path.
func (h OpeningHours) Validate() error {
	for day, rule := range h {
		if rule.Closed {
			continue
		}
		if _, err := ParseClock(rule.Open); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
		if _, err := ParseClock(rule.Close); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

// Slot is a candidate booking interval. Slots are computed views over the
// opening hours, never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BuildSlots expands a venue's opening hours into the ordered list of
// fixed-length candidate slots for one local calendar day. The date argument
// only contributes its year/month/day as seen in loc.
//
// Overnight rules are supported: if close <= open the window rolls into the
// next calendar day (a 22:00–02:00 rule yields slots across midnight, and an
// open == close rule yields a full 24h window). A trailing remainder shorter
// than the slot duration is dropped.
func BuildSlots(hours OpeningHours, durationMinutes int, date time.Time, loc *time.Location) []Slot {
	if durationMinutes <= 0 {
		return nil
	}

	local := date.In(loc)
	rule, ok := hours[weekdays[int(local.Weekday())]]
	if !ok || rule.Closed {
		return nil
	}

	open := clockOrMidnight(rule.Open)
	close := clockOrMidnight(rule.Close)

	y, m, d := local.Date()
	start := time.Date(y, m, d, open.Hour, open.Minute, 0, 0, loc)
	end := time.Date(y, m, d, close.Hour, close.Minute, 0, 0, loc)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}

	dur := time.Duration(durationMinutes) * time.Minute
	var slots []Slot
	for t := start; !t.Add(dur).After(end); t = t.Add(dur) {
		slots = append(slots, Slot{Start: t, End: t.Add(dur)})
	}
	return slots
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
