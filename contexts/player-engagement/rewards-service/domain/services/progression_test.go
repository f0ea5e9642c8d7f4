package services

import (
	"testing"
	"time"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
)

func TestLevelForExperienceBoundaries(t *testing.T) {
	cases := []struct {
		experience int
		level      int
	}{
		{-50, 1},
		{0, 1},
		{999, 1},
		{1000, 2},
		{1999, 2},
		{2000, 3},
		{2500, 3},
		{10000, 11},
	}
	for _, tc := range cases {
		if got := LevelForExperience(tc.experience); got != tc.level {
			t.Fatalf("experience %d: expected level %d, got %d", tc.experience, tc.level, got)
		}
	}
}

func TestAchievementProgressCapsAtHundred(t *testing.T) {
	cases := []struct {
		current  int
		target   int
		progress int
	}{
		{0, 7, 0},
		{3, 7, 42},
		{7, 7, 100},
		{30, 7, 100},
		{15, 30, 50},
		{-2, 7, 0},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := AchievementProgress(tc.current, tc.target); got != tc.progress {
			t.Fatalf("progress(%d, %d): expected %d, got %d", tc.current, tc.target, tc.progress, got)
		}
	}
}

func TestUnlockAchievementsAgainstLongestStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	profile, err := entities.NewProfile("user-1", now)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	profile.SetStreak(entities.StreakDailyLogin, entities.StreakState{CurrentStreak: 2, LongestStreak: 7, LastActivityDate: "2026-03-10"})

	unlocked := UnlockAchievements(&profile, now)
	if len(unlocked) != 1 || unlocked[0].ID != "week_warrior" {
		t.Fatalf("expected week_warrior unlock, got %+v", unlocked)
	}
	if !profile.HasUnlocked("week_warrior") {
		t.Fatalf("unlock must be stored on the profile")
	}
	if unlocked[0].UnlockedAt != now {
		t.Fatalf("unexpected unlock timestamp %v", unlocked[0].UnlockedAt)
	}
}

func TestUnlockAchievementsIsSticky(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	profile, err := entities.NewProfile("user-1", now)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	profile.SetStreak(entities.StreakDailyLogin, entities.StreakState{CurrentStreak: 7, LongestStreak: 7, LastActivityDate: "2026-03-10"})

	if first := UnlockAchievements(&profile, now); len(first) != 1 {
		t.Fatalf("expected one unlock, got %d", len(first))
	}
	if again := UnlockAchievements(&profile, now.Add(24*time.Hour)); len(again) != 0 {
		t.Fatalf("second pass must not re-unlock, got %+v", again)
	}
	if len(profile.Achievements) != 1 {
		t.Fatalf("expected one stored achievement, got %d", len(profile.Achievements))
	}
}

func TestUnlockAchievementsBelowTarget(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	profile, err := entities.NewProfile("user-1", now)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	profile.SetStreak(entities.StreakDailyLogin, entities.StreakState{CurrentStreak: 6, LongestStreak: 6, LastActivityDate: "2026-03-10"})
	profile.SetStreak(entities.StreakGalaxyExplorer, entities.StreakState{CurrentStreak: 29, LongestStreak: 29, LastActivityDate: "2026-03-10"})

	if unlocked := UnlockAchievements(&profile, now); len(unlocked) != 0 {
		t.Fatalf("targets not reached, got unlocks %+v", unlocked)
	}
}

func TestAchievementViewMixesStoredAndDerived(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	profile, err := entities.NewProfile("user-1", now)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	profile.SetStreak(entities.StreakDailyLogin, entities.StreakState{CurrentStreak: 7, LongestStreak: 7, LastActivityDate: "2026-03-10"})
	profile.SetStreak(entities.StreakGalaxyExplorer, entities.StreakState{CurrentStreak: 15, LongestStreak: 15, LastActivityDate: "2026-03-10"})
	UnlockAchievements(&profile, now)

	items := AchievementView(profile)
	if len(items) != 2 {
		t.Fatalf("expected two achievements, got %d", len(items))
	}
	if items[0].ID != "week_warrior" || !items[0].Unlocked || items[0].Progress != 100 {
		t.Fatalf("unexpected stored unlock %+v", items[0])
	}
	if items[1].ID != "galaxy_master" || items[1].Unlocked || items[1].Progress != 50 {
		t.Fatalf("unexpected in-progress entry %+v", items[1])
	}
}

func TestAchievementViewHidesUntouchedStreaks(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	profile, err := entities.NewProfile("user-1", now)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}

	if items := AchievementView(profile); len(items) != 0 {
		t.Fatalf("fresh profile must show no achievements, got %+v", items)
	}
}
