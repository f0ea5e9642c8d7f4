package application

import (
	"context"
	"errors"
	"testing"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
)

type stubConfigSource struct {
	entries []entities.RewardEntry
	err     error
}

func (s stubConfigSource) LoadCalendar(context.Context) ([]entities.RewardEntry, error) {
	return s.entries, s.err
}

func TestResolveCalendarDefaultsWithoutSource(t *testing.T) {
	calendar := ResolveCalendar(context.Background(), nil, nil)
	if entry := calendar.EntryForDay(1); entry.Amount != 50 {
		t.Fatalf("expected built-in day 1 amount 50, got %d", entry.Amount)
	}
}

func TestResolveCalendarUsesConfiguredTable(t *testing.T) {
	entries := make([]entities.RewardEntry, 0, 7)
	for day := 1; day <= 7; day++ {
		entries = append(entries, entities.RewardEntry{
			Day:      day,
			Amount:   day * 10,
			Currency: "credits",
			Kind:     entities.RewardCredits,
		})
	}
	calendar := ResolveCalendar(context.Background(), stubConfigSource{entries: entries}, nil)
	if entry := calendar.EntryForDay(7); entry.Amount != 70 {
		t.Fatalf("expected configured day 7 amount 70, got %d", entry.Amount)
	}
}

func TestResolveCalendarFallsBackOnLoadError(t *testing.T) {
	calendar := ResolveCalendar(context.Background(), stubConfigSource{err: errors.New("boom")}, nil)
	if entry := calendar.EntryForDay(3); entry.Kind != entities.RewardMysteryNFT {
		t.Fatalf("expected built-in mystery day, got %+v", entry)
	}
}

func TestResolveCalendarFallsBackOnInvalidTable(t *testing.T) {
	// A single entry cannot form a seven-day table.
	invalid := []entities.RewardEntry{{Day: 1, Amount: 10, Currency: "credits", Kind: entities.RewardCredits}}
	calendar := ResolveCalendar(context.Background(), stubConfigSource{entries: invalid}, nil)
	if entry := calendar.EntryForDay(7); entry.Amount != 500 {
		t.Fatalf("expected built-in day 7 amount 500, got %d", entry.Amount)
	}
}
