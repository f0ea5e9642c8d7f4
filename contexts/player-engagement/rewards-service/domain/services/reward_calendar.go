package services

import (
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
)

// CalendarLength is the cycle length of the daily reward calendar.
const CalendarLength = 7

// RewardCalendar maps streak counts onto the repeating seven-day table.
type RewardCalendar struct {
	entries [CalendarLength]entities.RewardEntry
}

// DefaultCalendar is the built-in reward table used when no configuration
// source provides one.
func DefaultCalendar() RewardCalendar {
	calendar, _ := NewCalendar([]entities.RewardEntry{
		{Day: 1, Amount: 50, Currency: "credits", Kind: entities.RewardCredits, Description: "Daily login bonus"},
		{Day: 2, Amount: 75, Currency: "credits", Kind: entities.RewardCredits, Description: "Daily login bonus"},
		{Day: 3, Amount: 100, Currency: "credits", Kind: entities.RewardMysteryNFT, Description: "Mystery card day"},
		{Day: 4, Amount: 125, Currency: "credits", Kind: entities.RewardCredits, Description: "Daily login bonus"},
		{Day: 5, Amount: 150, Currency: "credits", Kind: entities.RewardCredits, Description: "Daily login bonus"},
		{Day: 6, Amount: 200, Currency: "credits", Kind: entities.RewardCredits, Description: "Daily login bonus"},
		{Day: 7, Amount: 500, Currency: "credits", Kind: entities.RewardPremiumVariant, Description: "Premium variant day"},
	})
	return calendar
}

// NewCalendar validates a full seven-day table: exactly one entry per day
// 1..7, positive amounts, credits currency, known reward kinds.
func NewCalendar(entries []entities.RewardEntry) (RewardCalendar, error) {
	if len(entries) != CalendarLength {
		return RewardCalendar{}, domainerrors.ErrInvalidRewardConfig
	}

	var calendar RewardCalendar
	seen := [CalendarLength + 1]bool{}
	for _, entry := range entries {
		if entry.Day < 1 || entry.Day > CalendarLength || seen[entry.Day] {
			return RewardCalendar{}, domainerrors.ErrInvalidRewardConfig
		}
		if entry.Amount <= 0 {
			return RewardCalendar{}, domainerrors.ErrInvalidRewardConfig
		}
		if entry.Currency == "" {
			entry.Currency = "credits"
		}
		switch entry.Kind {
		case entities.RewardCredits, entities.RewardMysteryNFT, entities.RewardPremiumVariant:
		default:
			return RewardCalendar{}, domainerrors.ErrInvalidRewardConfig
		}
		seen[entry.Day] = true
		calendar.entries[entry.Day-1] = entry
	}
	return calendar, nil
}

// CycleDay maps a streak count onto its 1..7 calendar position. The calendar
// repeats, so CycleDay(n) == CycleDay(n+7).
func CycleDay(streak int) int {
	if streak < 1 {
		return 1
	}
	return ((streak - 1) % CalendarLength) + 1
}

// EntryForStreak returns the calendar entry a streak of the given length earns.
func (c RewardCalendar) EntryForStreak(streak int) entities.RewardEntry {
	return c.entries[CycleDay(streak)-1]
}

// EntryForDay returns the entry at a 1..7 calendar position.
func (c RewardCalendar) EntryForDay(day int) entities.RewardEntry {
	return c.entries[CycleDay(day)-1]
}

// Entries returns the table in day order.
func (c RewardCalendar) Entries() []entities.RewardEntry {
	return append([]entities.RewardEntry(nil), c.entries[:]...)
}

// GalaxyExplorerReward is the flat daily bonus for galaxy exploration; it
// bypasses the calendar entirely.
func GalaxyExplorerReward() entities.RewardEntry {
	return entities.RewardEntry{
		Amount:      25,
		Currency:    "credits",
		Kind:        entities.RewardGalaxyCredits,
		Description: "Galaxy Explorer Bonus",
	}
}
