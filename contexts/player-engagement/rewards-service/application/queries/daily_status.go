package queries

import (
	"context"
	"log/slog"
	"time"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	"astrade/contexts/player-engagement/rewards-service/domain/services"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

type DailyStatusQuery struct {
	UserID string
}

type WeekRewardStatus struct {
	Day       int
	Reward    entities.RewardEntry
	IsClaimed bool
	IsToday   bool
	IsLocked  bool
}

type DailyStatusResult struct {
	CanClaim           bool
	CurrentStreak      int
	LongestStreak      int
	ClaimedToday       bool
	TodayReward        *entities.RewardEntry
	NextRewardIn       string
	WeekRewards        []WeekRewardStatus
	GalaxyExplorerDays int
}

type DailyStatusUseCase struct {
	Profiles ports.ProfileStore
	Rewards  ports.RewardConfigSource
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u DailyStatusUseCase) Execute(ctx context.Context, query DailyStatusQuery) (DailyStatusResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("daily status started",
		"event", "daily_status_started",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", query.UserID,
	)

	profile, err := u.Profiles.GetProfile(ctx, query.UserID)
	if err != nil {
		logger.Error("daily status failed",
			"event", "daily_status_failed",
			"module", "player-engagement/rewards-service",
			"layer", "application",
			"user_id", query.UserID,
			"error", err.Error(),
		)
		return DailyStatusResult{}, err
	}

	calendar := application.ResolveCalendar(ctx, u.Rewards, u.Logger)
	now := u.now()
	today := services.FormatDay(now)

	state := profile.Streak(entities.StreakDailyLogin)
	claimedToday := profile.ClaimedOn(today, entities.ActivityDailyStreak) ||
		state.LastActivityDate == today

	// todaySlot is the board slot a claim would fill right now, derived by
	// projecting the streak one day forward. A gap resets the projection to
	// day 1, a completed cycle wraps it back to day 1.
	todaySlot := 0
	claimedUpTo := 0
	if claimedToday {
		claimedUpTo = services.CycleDay(state.CurrentStreak)
	} else {
		projected, err := services.AdvanceStreak(state, now)
		if err != nil {
			return DailyStatusResult{}, err
		}
		todaySlot = services.CycleDay(projected.CurrentStreak)
		claimedUpTo = todaySlot - 1
	}

	week := make([]WeekRewardStatus, 0, services.CalendarLength)
	for day := 1; day <= services.CalendarLength; day++ {
		week = append(week, WeekRewardStatus{
			Day:       day,
			Reward:    calendar.EntryForDay(day),
			IsClaimed: day <= claimedUpTo,
			IsToday:   day == todaySlot,
			IsLocked:  day > claimedUpTo && day != todaySlot,
		})
	}

	result := DailyStatusResult{
		CanClaim:           !claimedToday,
		CurrentStreak:      state.CurrentStreak,
		LongestStreak:      state.LongestStreak,
		ClaimedToday:       claimedToday,
		WeekRewards:        week,
		GalaxyExplorerDays: profile.Streak(entities.StreakGalaxyExplorer).CurrentStreak,
	}
	if claimedToday {
		result.NextRewardIn = services.NextUTCMidnight(now).Sub(now).Truncate(time.Second).String()
	} else {
		entry := calendar.EntryForDay(todaySlot)
		result.TodayReward = &entry
	}

	logger.Info("daily status completed",
		"event", "daily_status_completed",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", query.UserID,
		"current_streak", result.CurrentStreak,
		"claimed_today", result.ClaimedToday,
	)
	return result, nil
}

func (u DailyStatusUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
