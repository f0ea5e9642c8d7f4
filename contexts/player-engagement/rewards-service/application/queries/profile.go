package queries

import (
	"context"
	"log/slog"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	"astrade/contexts/player-engagement/rewards-service/domain/services"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

const recentClaimsLimit = 10

type GetProfileQuery struct {
	UserID string
}

type GetProfileResult struct {
	Profile       entities.Profile
	Achievements  []entities.Achievement
	RecentRewards []entities.ClaimRecord
}

type GetProfileUseCase struct {
	Profiles ports.ProfileStore
	Logger   *slog.Logger
}

func (u GetProfileUseCase) Execute(ctx context.Context, query GetProfileQuery) (GetProfileResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("get profile started",
		"event", "get_profile_started",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", query.UserID,
	)

	profile, err := u.Profiles.GetProfile(ctx, query.UserID)
	if err != nil {
		logger.Error("get profile failed",
			"event", "get_profile_failed",
			"module", "player-engagement/rewards-service",
			"layer", "application",
			"user_id", query.UserID,
			"error", err.Error(),
		)
		return GetProfileResult{}, err
	}

	return GetProfileResult{
		Profile:       profile,
		Achievements:  services.AchievementView(profile),
		RecentRewards: profile.RecentClaims(recentClaimsLimit),
	}, nil
}
