package services

import (
	"errors"
	"testing"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
)

func TestDefaultCalendarTable(t *testing.T) {
	calendar := DefaultCalendar()

	expected := []struct {
		day    int
		amount int
		kind   entities.RewardKind
	}{
		{1, 50, entities.RewardCredits},
		{2, 75, entities.RewardCredits},
		{3, 100, entities.RewardMysteryNFT},
		{4, 125, entities.RewardCredits},
		{5, 150, entities.RewardCredits},
		{6, 200, entities.RewardCredits},
		{7, 500, entities.RewardPremiumVariant},
	}
	for _, want := range expected {
		entry := calendar.EntryForDay(want.day)
		if entry.Amount != want.amount {
			t.Fatalf("day %d: expected amount %d, got %d", want.day, want.amount, entry.Amount)
		}
		if entry.Kind != want.kind {
			t.Fatalf("day %d: expected kind %s, got %s", want.day, want.kind, entry.Kind)
		}
		if entry.Currency != "credits" {
			t.Fatalf("day %d: expected credits currency, got %s", want.day, entry.Currency)
		}
	}
}

func TestCycleDayRepeatsEverySevenDays(t *testing.T) {
	for streak := 1; streak <= 21; streak++ {
		if CycleDay(streak) != CycleDay(streak+7) {
			t.Fatalf("streak %d and %d map to different days", streak, streak+7)
		}
	}
	if CycleDay(0) != 1 {
		t.Fatalf("zero streak must map to day 1, got %d", CycleDay(0))
	}
	if CycleDay(7) != 7 {
		t.Fatalf("streak 7 must map to day 7, got %d", CycleDay(7))
	}
	if CycleDay(8) != 1 {
		t.Fatalf("streak 8 must wrap to day 1, got %d", CycleDay(8))
	}
}

func TestEntryForStreakWrapsAroundCycle(t *testing.T) {
	calendar := DefaultCalendar()
	if entry := calendar.EntryForStreak(10); entry.Amount != 100 || entry.Kind != entities.RewardMysteryNFT {
		t.Fatalf("streak 10 must earn the day 3 reward, got %+v", entry)
	}
	if entry := calendar.EntryForStreak(14); entry.Amount != 500 || entry.Kind != entities.RewardPremiumVariant {
		t.Fatalf("streak 14 must earn the day 7 reward, got %+v", entry)
	}
}

func TestNewCalendarRejectsInvalidTables(t *testing.T) {
	valid := DefaultCalendar().Entries()

	short := valid[:6]
	if _, err := NewCalendar(short); !errors.Is(err, domainerrors.ErrInvalidRewardConfig) {
		t.Fatalf("short table must be rejected, got %v", err)
	}

	duplicated := append([]entities.RewardEntry(nil), valid...)
	duplicated[6].Day = 3
	if _, err := NewCalendar(duplicated); !errors.Is(err, domainerrors.ErrInvalidRewardConfig) {
		t.Fatalf("duplicate day must be rejected, got %v", err)
	}

	zeroAmount := append([]entities.RewardEntry(nil), valid...)
	zeroAmount[0].Amount = 0
	if _, err := NewCalendar(zeroAmount); !errors.Is(err, domainerrors.ErrInvalidRewardConfig) {
		t.Fatalf("zero amount must be rejected, got %v", err)
	}

	badKind := append([]entities.RewardEntry(nil), valid...)
	badKind[1].Kind = "stardust"
	if _, err := NewCalendar(badKind); !errors.Is(err, domainerrors.ErrInvalidRewardConfig) {
		t.Fatalf("unknown kind must be rejected, got %v", err)
	}
}

func TestNewCalendarDefaultsCurrency(t *testing.T) {
	entries := DefaultCalendar().Entries()
	entries[4].Currency = ""
	calendar, err := NewCalendar(entries)
	if err != nil {
		t.Fatalf("valid table rejected: %v", err)
	}
	if got := calendar.EntryForDay(5).Currency; got != "credits" {
		t.Fatalf("expected defaulted credits currency, got %s", got)
	}
}

func TestGalaxyExplorerRewardIsFlat(t *testing.T) {
	entry := GalaxyExplorerReward()
	if entry.Amount != 25 {
		t.Fatalf("expected flat 25, got %d", entry.Amount)
	}
	if entry.Kind != entities.RewardGalaxyCredits {
		t.Fatalf("expected galaxy credits kind, got %s", entry.Kind)
	}
}
