// Package timeofday handles wall-clock times stored as "HH:MM:SS" strings.
package timeofday

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Layout is the canonical second-precision representation.
const Layout = "15:04:05"

var ErrInvalidTime = errors.New("time must be HH:MM or HH:MM:SS")

var clockRegex = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// Normalize accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM:SS".
// Minute-only input gets ":00" seconds.
func Normalize(s string) (string, error) {
	if !clockRegex.MatchString(s) {
		return "", ErrInvalidTime
	}
	if len(s) == 5 {
		s += ":00"
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", ErrInvalidTime
	}
	return t.Format(Layout), nil
}

// Format renders the time-of-day part of t.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Seconds returns the number of seconds since midnight of a normalized time.
func Seconds(s string) (int, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// DiffMinutes returns minutes(a) - minutes(b) on the same calendar day, where
// each time is first floored to its minute. Positive means a is later than b.
func DiffMinutes(a, b string) (int, error) {
	as, err := Seconds(a)
	if err != nil {
		return 0, err
	}
	bs, err := Seconds(b)
	if err != nil {
		return 0, err
	}
	return as/60 - bs/60, nil
}
