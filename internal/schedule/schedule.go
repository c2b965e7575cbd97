// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is a parsed RUNNINGSCHEDULE tag value. It describes the weekly
// window during which an instance is allowed to run: a start and stop time
// of day (minutes since midnight) and an inclusive ISO weekday range
// (Monday=1 .. Sunday=7).
type Window struct {
	Start    int
	Stop     int
	FirstDay int
	LastDay  int
}

// Parse parses a RUNNINGSCHEDULE tag value of the form "HH:MM:HH:MM:d-d".
// The five colon-separated fields are a 24h start time, a 24h stop time and
// an ISO weekday range. The start time must be strictly before the stop time
// and the weekday range must satisfy 1 <= first <= last <= 7.
func Parse(s string) (Window, error) {
	tokens := strings.Split(s, ":")

	// The schedule must have exactly 5 fields.
	if len(tokens) != 5 {
		return Window{}, fmt.Errorf("schedule %q: want 5 colon-separated fields, got %d", s, len(tokens))
	}

	// The first 4 fields must be 2 valid 24h times.
	start, err := parseClock(tokens[0], tokens[1])
	if err != nil {
		return Window{}, fmt.Errorf("schedule %q: bad start time: %w", s, err)
	}
	stop, err := parseClock(tokens[2], tokens[3])
	if err != nil {
		return Window{}, fmt.Errorf("schedule %q: bad stop time: %w", s, err)
	}

	// The start time must be before the stop time.
	if start >= stop {
		return Window{}, fmt.Errorf("schedule %q: start time is not before stop time", s)
	}

	// The last field is "first-last" with exactly one hyphen, both integer
	// ISO weekdays.
	dayTokens := strings.Split(tokens[4], "-")
	if len(dayTokens) != 2 {
		return Window{}, fmt.Errorf("schedule %q: bad day range %q", s, tokens[4])
	}
	firstDay, err := strconv.Atoi(dayTokens[0])
	if err != nil {
		return Window{}, fmt.Errorf("schedule %q: bad first day %q", s, dayTokens[0])
	}
	lastDay, err := strconv.Atoi(dayTokens[1])
	if err != nil {
		return Window{}, fmt.Errorf("schedule %q: bad last day %q", s, dayTokens[1])
	}
	if lastDay < firstDay {
		return Window{}, fmt.Errorf("schedule %q: first day is after last day", s)
	}
	if firstDay < 1 || firstDay > 7 || lastDay < 1 || lastDay > 7 {
		return Window{}, fmt.Errorf("schedule %q: days must be between 1 and 7", s)
	}

	return Window{
		Start:    start,
		Stop:     stop,
		FirstDay: firstDay,
		LastDay:  lastDay,
	}, nil
}

// CoversDay reports whether t falls on a weekday inside the window's range.
// t must already be in the schedule's zone.
func (w Window) CoversDay(t time.Time) bool {
	day := ISOWeekday(t)
	return day >= w.FirstDay && day <= w.LastDay
}

// CoversTime reports whether t's time of day is inside the window,
// boundaries included. The comparison is second-resolution, so 18:00:00 is
// still inside a window stopping at 18:00 and 18:00:01 is outside it. t must
// already be in the schedule's zone.
func (w Window) CoversTime(t time.Time) bool {
	s := (t.Hour()*60+t.Minute())*60 + t.Second()
	return s >= w.Start*60 && s <= w.Stop*60
}

// String renders the window back in tag form.
func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d:%d-%d",
		w.Start/60, w.Start%60, w.Stop/60, w.Stop%60, w.FirstDay, w.LastDay)
}

// ISOWeekday returns the ISO 8601 weekday of t: Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	day := int(t.Weekday())
	if day == 0 {
		return 7
	}
	return day
}

// parseClock converts an "HH" and "MM" token pair to minutes since midnight.
func parseClock(hh, mm string) (int, error) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("bad hour %q", hh)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("bad minute %q", mm)
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour %d out of range", h)
	}
	if m < 0 || m > 59 {
		return 0, fmt.Errorf("minute %d out of range", m)
	}
	return h*60 + m, nil
}
