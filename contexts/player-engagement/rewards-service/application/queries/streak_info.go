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

type StreakInfoQuery struct {
	UserID string
}

type StreakDetail struct {
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate string
	ActiveToday      bool
}

type StreakInfoResult struct {
	DailyLogin     StreakDetail
	GalaxyExplorer StreakDetail
}

// StreakInfoUseCase reports both activity streaks without mutating them.
type StreakInfoUseCase struct {
	Profiles ports.ProfileStore
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u StreakInfoUseCase) Execute(ctx context.Context, query StreakInfoQuery) (StreakInfoResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("streak info started",
		"event", "streak_info_started",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", query.UserID,
	)

	profile, err := u.Profiles.GetProfile(ctx, query.UserID)
	if err != nil {
		logger.Error("streak info failed",
			"event", "streak_info_failed",
			"module", "player-engagement/rewards-service",
			"layer", "application",
			"user_id", query.UserID,
			"error", err.Error(),
		)
		return StreakInfoResult{}, err
	}

	today := services.FormatDay(u.now())
	return StreakInfoResult{
		DailyLogin:     streakDetail(profile.Streak(entities.StreakDailyLogin), today),
		GalaxyExplorer: streakDetail(profile.Streak(entities.StreakGalaxyExplorer), today),
	}, nil
}

func streakDetail(state entities.StreakState, today string) StreakDetail {
	return StreakDetail{
		CurrentStreak:    state.CurrentStreak,
		LongestStreak:    state.LongestStreak,
		LastActivityDate: state.LastActivityDate,
		ActiveToday:      state.LastActivityDate == today,
	}
}

func (u StreakInfoUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
