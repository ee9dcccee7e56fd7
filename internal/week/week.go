// Package week parses and formats ISO-8601 week identifiers such as "2025-W21".
package week

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the accepted calendar date input.
const DateLayout = "2006-01-02"

// Week input errors.
var (
	ErrEmptyWeek         = errors.New("please enter a week number")
	ErrInvalidWeekFormat = errors.New("invalid week number format (e.g., 2025-W21)")
)

var isoWeekPattern = regexp.MustCompile(`^\d{4}-W([0-4]?\d|5[0-3])$`)

// Validate trims s and checks it is a week identifier. It returns the trimmed value.
func Validate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyWeek
	}

	if !isoWeekPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekFormat, s)
	}

	return s, nil
}

// FromDate returns the ISO week containing t, formatted as YYYY-Www.
// Week 1 is the week holding the year's first Thursday.
func FromDate(t time.Time) string {
	year, wk := t.ISOWeek()

	return Format(year, wk)
}

// Format renders a year and week number.
func Format(year, wk int) string {
	return fmt.Sprintf("%04d-W%02d", year, wk)
}

// Parse accepts either a week identifier or a YYYY-MM-DD date.
func Parse(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyWeek
	}

	if d, err := time.Parse(DateLayout, input); err == nil {
		return FromDate(d), nil
	}

	return Validate(input)
}

// Current returns the ISO week of now.
func Current(now time.Time) string {
	return FromDate(now)
}

// Previous returns the ISO week before the one containing now.
func Previous(now time.Time) string {
	return FromDate(now.AddDate(0, 0, -7))
}
