package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	"astrade/contexts/player-engagement/rewards-service/domain/services"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

type RecordActivityCommand struct {
	UserID string
}

type RecordActivityResult struct {
	Success   bool
	NewStreak int
	Reward    entities.RewardEntry
	Message   string
}

// RecordActivityUseCase registers a galaxy exploration ping. One ping per
// UTC day advances the galaxy_explorer streak and pays the flat bonus; a
// repeat on the same day is reported as success=false without mutation.
type RecordActivityUseCase struct {
	Profiles        ports.ProfileStore
	Clock           ports.Clock
	MaxSwapAttempts int
	Logger          *slog.Logger
}

func (u RecordActivityUseCase) Execute(
	ctx context.Context,
	cmd RecordActivityCommand,
) (RecordActivityResult, error) {
	logger := application.ResolveLogger(u.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return RecordActivityResult{}, domainerrors.ErrInvalidRequest
	}

	now := u.now()
	today := services.FormatDay(now)

	var result RecordActivityResult
	attempts := u.maxSwapAttempts()
	for attempt := 1; ; attempt++ {
		var err error
		result, err = u.applyActivity(ctx, userID, now, today)
		if err == nil {
			break
		}
		if !errors.Is(err, domainerrors.ErrVersionConflict) {
			return RecordActivityResult{}, err
		}
		if attempt >= attempts {
			logger.Error("activity record retries exhausted",
				"event", "rewards_activity_cas_exhausted",
				"module", "player-engagement/rewards-service",
				"layer", "application",
				"user_id", userID,
				"attempts", attempts,
			)
			return RecordActivityResult{}, domainerrors.ErrConcurrentUpdate
		}
	}

	logger.Info("galaxy activity recorded",
		"event", "rewards_activity_recorded",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", userID,
		"day", today,
		"accepted", result.Success,
		"new_streak", result.NewStreak,
	)
	return result, nil
}

func (u RecordActivityUseCase) applyActivity(
	ctx context.Context,
	userID string,
	now time.Time,
	today string,
) (RecordActivityResult, error) {
	profile, err := u.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return RecordActivityResult{}, err
	}
	if profile.ClaimedOn(today, entities.ActivityGalaxyExplorer) {
		return RecordActivityResult{
			Success:   false,
			NewStreak: profile.Streak(entities.StreakGalaxyExplorer).CurrentStreak,
			Message:   "Galaxy exploration already recorded today",
		}, nil
	}

	state, err := services.AdvanceStreak(profile.Streak(entities.StreakGalaxyExplorer), now)
	if err != nil {
		if errors.Is(err, domainerrors.ErrActivityAlreadyRecorded) {
			return RecordActivityResult{
				Success:   false,
				NewStreak: profile.Streak(entities.StreakGalaxyExplorer).CurrentStreak,
				Message:   "Galaxy exploration already recorded today",
			}, nil
		}
		return RecordActivityResult{}, err
	}

	entry := services.GalaxyExplorerReward()
	claim := entities.ClaimRecord{
		Date:         today,
		ActivityKind: entities.ActivityGalaxyExplorer,
		Reward:       entry,
		StreakCount:  state.CurrentStreak,
		ClaimedAt:    now,
	}
	profile.SetStreak(entities.StreakGalaxyExplorer, state)
	profile.ClaimHistory = append(profile.ClaimHistory, claim)
	services.UnlockAchievements(&profile, now)
	profile.UpdatedAt = now.UTC()

	expectedVersion := profile.Version
	profile.Version = expectedVersion + 1
	if err := u.Profiles.CompareAndSwapProfile(ctx, userID, expectedVersion, profile, nil); err != nil {
		return RecordActivityResult{}, err
	}

	return RecordActivityResult{
		Success:   true,
		NewStreak: state.CurrentStreak,
		Reward:    entry,
		Message:   "Galaxy exploration recorded",
	}, nil
}

func (u RecordActivityUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}

func (u RecordActivityUseCase) maxSwapAttempts() int {
	if u.MaxSwapAttempts <= 0 {
		return defaultSwapAttempts
	}
	return u.MaxSwapAttempts
}
