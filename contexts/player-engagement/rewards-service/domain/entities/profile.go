package entities

import (
	"strings"
	"time"

	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
)

// StreakKey names a consecutive-day counter stored on the profile.
type StreakKey string

const (
	StreakDailyLogin     StreakKey = "daily_login"
	StreakGalaxyExplorer StreakKey = "galaxy_explorer"
)

// StreakState tracks consecutive UTC calendar days of one activity.
// LastActivityDate is a YYYY-MM-DD day string, empty when no activity was
// ever recorded. Invariant: LongestStreak >= CurrentStreak >= 0.
type StreakState struct {
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	LastActivityDate string `json:"last_activity_date,omitempty"`
}

// ClaimRecord is one append-only entry of the profile claim history.
// At most one record exists per (user, UTC day, activity kind).
type ClaimRecord struct {
	Date         string       `json:"date"`
	ActivityKind ActivityKind `json:"activity_kind"`
	Reward       RewardEntry  `json:"reward"`
	StreakCount  int          `json:"streak_count"`
	ClaimedAt    time.Time    `json:"claimed_at"`
}

// Achievement is a sticky unlock stored on the profile. Progress is always
// derived at read time and never persisted.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Unlocked    bool      `json:"unlocked"`
	Progress    int       `json:"progress"`
	UnlockedAt  time.Time `json:"unlocked_at,omitempty"`
}

// Profile is the versioned aggregate persisted per user. All mutations flow
// through compare-and-swap on Version.
type Profile struct {
	UserID       string
	Level        int
	Experience   int
	TotalTrades  int
	TotalPnL     float64
	Achievements []Achievement
	Streaks      map[StreakKey]StreakState
	ClaimHistory []ClaimRecord
	Collectibles []Collectible
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProfile seeds the version-1 aggregate for a freshly registered user:
// level 1, zero experience, both streaks zeroed, empty history.
func NewProfile(userID string, now time.Time) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, domainerrors.ErrInvalidRequest
	}
	return Profile{
		UserID:     strings.TrimSpace(userID),
		Level:      1,
		Experience: 0,
		Streaks: map[StreakKey]StreakState{
			StreakDailyLogin:     {},
			StreakGalaxyExplorer: {},
		},
		Achievements: []Achievement{},
		ClaimHistory: []ClaimRecord{},
		Collectibles: []Collectible{},
		Version:      1,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}, nil
}

// Streak returns the state for a key, zero-valued when the bucket is absent.
func (p Profile) Streak(key StreakKey) StreakState {
	if p.Streaks == nil {
		return StreakState{}
	}
	return p.Streaks[key]
}

func (p *Profile) SetStreak(key StreakKey, state StreakState) {
	if p.Streaks == nil {
		p.Streaks = make(map[StreakKey]StreakState, 2)
	}
	p.Streaks[key] = state
}

// ClaimedOn reports whether a claim record already exists for the day/kind pair.
func (p Profile) ClaimedOn(day string, kind ActivityKind) bool {
	for _, record := range p.ClaimHistory {
		if record.Date == day && record.ActivityKind == kind {
			return true
		}
	}
	return false
}

// HasUnlocked reports whether an achievement id is stored as unlocked.
func (p Profile) HasUnlocked(achievementID string) bool {
	for _, item := range p.Achievements {
		if item.ID == achievementID && item.Unlocked {
			return true
		}
	}
	return false
}

// RecentClaims returns the newest records, preserving history order.
func (p Profile) RecentClaims(limit int) []ClaimRecord {
	if limit <= 0 || len(p.ClaimHistory) <= limit {
		return append([]ClaimRecord(nil), p.ClaimHistory...)
	}
	return append([]ClaimRecord(nil), p.ClaimHistory[len(p.ClaimHistory)-limit:]...)
}

// Clone deep-copies the aggregate so callers can mutate without sharing
// slices or the streak map with stored state.
func (p Profile) Clone() Profile {
	clone := p
	clone.Streaks = make(map[StreakKey]StreakState, len(p.Streaks))
	for key, state := range p.Streaks {
		clone.Streaks[key] = state
	}
	clone.Achievements = append([]Achievement(nil), p.Achievements...)
	clone.ClaimHistory = append([]ClaimRecord(nil), p.ClaimHistory...)
	clone.Collectibles = append([]Collectible(nil), p.Collectibles...)
	return clone
}
