package services

import (
	"time"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
)

// AdvanceStreak applies one activity on the given instant's UTC calendar day:
// first ever activity starts the streak at 1; the day after the last activity
// extends it; a gap of more than one day restarts at 1 without touching the
// longest counter; the same day is rejected as already recorded; an earlier
// day is rejected as invalid. Longest never decreases.
func AdvanceStreak(state entities.StreakState, at time.Time) (entities.StreakState, error) {
	day := truncateToDay(at)

	if state.LastActivityDate == "" {
		state.CurrentStreak = 1
		if state.LongestStreak < 1 {
			state.LongestStreak = 1
		}
		state.LastActivityDate = FormatDay(day)
		return state, nil
	}

	last, err := ParseDay(state.LastActivityDate)
	if err != nil {
		return state, domainerrors.ErrInvalidActivityDate
	}

	switch gap := daysBetween(last, day); {
	case gap == 0:
		return state, domainerrors.ErrActivityAlreadyRecorded
	case gap == 1:
		state.CurrentStreak++
	case gap > 1:
		state.CurrentStreak = 1
	default:
		return state, domainerrors.ErrInvalidActivityDate
	}

	if state.CurrentStreak > state.LongestStreak {
		state.LongestStreak = state.CurrentStreak
	}
	state.LastActivityDate = FormatDay(day)
	return state, nil
}

// FormatDay renders the UTC calendar day of an instant as YYYY-MM-DD.
func FormatDay(at time.Time) string {
	return at.UTC().Format(time.DateOnly)
}

// ParseDay parses a YYYY-MM-DD day string into a UTC midnight instant.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(time.DateOnly, day)
}

// NextUTCMidnight returns the start of the next UTC calendar day.
func NextUTCMidnight(at time.Time) time.Time {
	return truncateToDay(at).AddDate(0, 0, 1)
}

func truncateToDay(at time.Time) time.Time {
	utc := at.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from time.Time, to time.Time) int {
	return int(truncateToDay(to).Sub(truncateToDay(from)) / (24 * time.Hour))
}
