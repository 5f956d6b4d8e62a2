package worktime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock is returned for time-of-day strings that are not HH:MM.
var ErrInvalidClock = errors.New("invalid time of day")

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// ParseClock parses a 24-hour "HH:MM" string. A single-digit hour is accepted,
// minutes must have two digits.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Elapsed returns the hours from start to end. An end earlier than the start
// is read as the next day.
func Elapsed(start, end Clock) float64 {
	diff := end.minutes() - start.minutes()
	if diff < 0 {
		diff += 24 * 60
	}
	return float64(diff) / 60
}

// HoursBetween parses both clocks and returns the elapsed hours between them.
func HoursBetween(start, end string) (float64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, fmt.Errorf("start: %w", err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, fmt.Errorf("end: %w", err)
	}
	return Elapsed(s, e), nil
}

// LenientHoursBetween is HoursBetween with malformed input read as zero hours.
func LenientHoursBetween(start, end string) float64 {
	h, err := HoursBetween(start, end)
	if err != nil {
		return 0
	}
	return h
}

// Interval is anything with a start and end time of day, such as an interruption.
type Interval interface {
	Clocks() (start, end string)
}

// TotalPause sums the elapsed hours of every interval. Malformed intervals
// count as zero.
func TotalPause[T Interval](intervals []T) float64 {
	var total float64
	for _, iv := range intervals {
		start, end := iv.Clocks()
		total += LenientHoursBetween(start, end)
	}
	return total
}

// Shift holds the hour breakdown of one working day.
type Shift struct {
	Total float64
	Pause float64
	Net   float64
}

// NewShift computes the working span between start and end and subtracts the
// pause hours from it. Unlike TotalPause it rejects malformed clocks.
func NewShift[T Interval](start, end string, pauses []T) (Shift, error) {
	total, err := HoursBetween(start, end)
	if err != nil {
		return Shift{}, err
	}
	var pause float64
	for i, p := range pauses {
		ps, pe := p.Clocks()
		h, err := HoursBetween(ps, pe)
		if err != nil {
			return Shift{}, fmt.Errorf("interruption %d: %w", i+1, err)
		}
		pause += h
	}
	return Shift{Total: total, Pause: pause, Net: total - pause}, nil
}

// Span is a plain Interval.
type Span struct {
	Start string
	End   string
}

func (s Span) Clocks() (string, string) { return s.Start, s.End }
