package queries

import (
	"context"
	"log/slog"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	"astrade/contexts/player-engagement/rewards-service/domain/services"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

type GetAchievementsQuery struct {
	UserID string
}

type GetAchievementsResult struct {
	Achievements []entities.Achievement
	Level        int
	Experience   int
	TotalTrades  int
}

type GetAchievementsUseCase struct {
	Profiles ports.ProfileStore
	Logger   *slog.Logger
}

func (u GetAchievementsUseCase) Execute(ctx context.Context, query GetAchievementsQuery) (GetAchievementsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("get achievements started",
		"event", "get_achievements_started",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", query.UserID,
	)

	profile, err := u.Profiles.GetProfile(ctx, query.UserID)
	if err != nil {
		logger.Error("get achievements failed",
			"event", "get_achievements_failed",
			"module", "player-engagement/rewards-service",
			"layer", "application",
			"user_id", query.UserID,
			"error", err.Error(),
		)
		return GetAchievementsResult{}, err
	}

	achievements := services.AchievementView(profile)

	logger.Info("get achievements completed",
		"event", "get_achievements_completed",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", query.UserID,
		"achievements_count", len(achievements),
	)

	return GetAchievementsResult{
		Achievements: achievements,
		Level:        profile.Level,
		Experience:   profile.Experience,
		TotalTrades:  profile.TotalTrades,
	}, nil
}
