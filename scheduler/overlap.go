// Package scheduler computes common meeting windows from two users'
// declared time zones, daily working hours and explicit busy blocks.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrNoOverlap means the two parties share no free time on the given date.
var ErrNoOverlap = errors.New("no overlapping availability")

// Slot is a candidate meeting window in UTC.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s Slot) Duration() time.Duration { return s.End.Sub(s.Start) }

// Block is a busy interval on the requested date, expressed as HH:MM local
// to its owner.
type Block struct {
	Start string
	End   string
}

// Party is one side of the meeting: their IANA location, a daily
// "HH:MM-HH:MM" working window in that location, and any busy blocks.
type Party struct {
	Location *time.Location
	Hours    string
	Blocked  []Block
}

const DefaultHours = "09:00-17:00"

// Overlap intersects the two parties' working windows on the given date
// (2006-01-02), removes both sides' busy blocks, and returns the remaining
// free slots ranked longest first, earliest breaking ties. Only the single
// supplied date is searched.
func Overlap(date string, a, b Party) ([]Slot, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	aStart, aEnd, err := windowOn(day, a)
	if err != nil {
		return nil, err
	}
	bStart, bEnd, err := windowOn(day, b)
	if err != nil {
		return nil, err
	}

	start, end := aStart, aEnd
	if bStart.After(start) {
		start = bStart
	}
	if bEnd.Before(end) {
		end = bEnd
	}
	if !start.Before(end) {
		return nil, ErrNoOverlap
	}

	free := []Slot{{Start: start, End: end}}
	for _, p := range []Party{a, b} {
		for _, blk := range p.Blocked {
			blkStart, blkEnd, err := resolveBlock(day, p.Location, blk)
			if err != nil {
				return nil, err
			}
			free = subtract(free, blkStart, blkEnd)
		}
	}
	if len(free) == 0 {
		return nil, ErrNoOverlap
	}

	sort.Slice(free, func(i, j int) bool {
		if free[i].Duration() != free[j].Duration() {
			return free[i].Duration() > free[j].Duration()
		}
		return free[i].Start.Before(free[j].Start)
	})
	return free, nil
}

// windowOn places a party's daily working window on the given calendar date
// in their own time zone and converts it to UTC.
func windowOn(day time.Time, p Party) (time.Time, time.Time, error) {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	hours := p.Hours
	if hours == "" {
		hours = DefaultHours
	}

	startMin, endMin, err := ParseHours(hours)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := atMinute(day, startMin, loc)
	end := atMinute(day, endMin, loc)
	return start.UTC(), end.UTC(), nil
}

func resolveBlock(day time.Time, loc *time.Location, blk Block) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	startMin, err := parseHHMM(blk.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := parseHHMM(blk.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endMin <= startMin {
		return time.Time{}, time.Time{}, fmt.Errorf("block %s-%s ends before it starts", blk.Start, blk.End)
	}
	return atMinute(day, startMin, loc).UTC(), atMinute(day, endMin, loc).UTC(), nil
}

func atMinute(day time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc)
}

// subtract removes [blockStart, blockEnd) from every slot, splitting slots
// the block lands inside.
func subtract(slots []Slot, blockStart, blockEnd time.Time) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if !blockStart.Before(s.End) || !blockEnd.After(s.Start) {
			out = append(out, s)
			continue
		}
		if blockStart.After(s.Start) {
			out = append(out, Slot{Start: s.Start, End: blockStart})
		}
		if blockEnd.Before(s.End) {
			out = append(out, Slot{Start: blockEnd, End: s.End})
		}
	}
	return out
}

// ParseHours splits a "HH:MM-HH:MM" working-hours string into minutes since
// midnight.
func ParseHours(hours string) (int, int, error) {
	var sh, sm, eh, em int
	if _, err := fmt.Sscanf(hours, "%d:%d-%d:%d", &sh, &sm, &eh, &em); err != nil {
		return 0, 0, fmt.Errorf("invalid working hours %q (want HH:MM-HH:MM)", hours)
	}
	start := sh*60 + sm
	end := eh*60 + em
	if sh < 0 || sh > 23 || eh < 0 || eh > 24 || sm < 0 || sm > 59 || em < 0 || em > 59 {
		return 0, 0, fmt.Errorf("invalid working hours %q", hours)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("working hours %q must end after they start", hours)
	}
	return start, end, nil
}

func parseHHMM(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}
