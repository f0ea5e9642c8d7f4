package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	"astrade/contexts/player-engagement/rewards-service/domain/services"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

const (
	rewardClaimedEventType = "rewards.claimed"
	levelUpEventType       = "player.level_up"

	defaultSwapAttempts = 3
)

type ClaimDailyRewardCommand struct {
	UserID         string
	ActivityKind   string
	IdempotencyKey string
}

type ClaimDailyRewardResult struct {
	Reward      entities.RewardEntry
	Claim       entities.ClaimRecord
	NewStreak   int
	Level       int
	Experience  int
	LeveledUp   bool
	Collectible *entities.Collectible
	Message     string
	Replayed    bool
}

type ClaimDailyRewardUseCase struct {
	Profiles        ports.ProfileStore
	Rewards         ports.RewardConfigSource
	Idempotency     ports.IdempotencyStore
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	IdempotencyTTL  time.Duration
	MaxSwapAttempts int
	Logger          *slog.Logger
}

// Execute runs the claim workflow in this order:
// 1) idempotency lookup/replay
// 2) load profile and validate eligibility for the UTC day
// 3) streak advance, reward mapping, experience/level update, collectible
//    mint, achievement unlocks, all on the in-memory aggregate
// 4) compare-and-swap persistence with outbox events, retried on version
//    conflicts up to the attempt limit
// 5) idempotency record write.
func (u ClaimDailyRewardUseCase) Execute(
	ctx context.Context,
	cmd ClaimDailyRewardCommand,
) (ClaimDailyRewardResult, error) {
	logger := application.ResolveLogger(u.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return ClaimDailyRewardResult{}, domainerrors.ErrInvalidRequest
	}
	kind := entities.ActivityKind(strings.TrimSpace(cmd.ActivityKind))
	if kind == "" {
		kind = entities.ActivityDailyStreak
	}
	if !entities.IsValidActivityKind(kind) {
		return ClaimDailyRewardResult{}, domainerrors.ErrInvalidActivityKind
	}

	now := u.now()
	today := services.FormatDay(now)
	idempotencyKey := resolveClaimIdempotencyKey(cmd, kind, today)
	requestHash := hashStrings("claim_daily", userID, string(kind), today)

	logger.Info("daily claim started",
		"event", "rewards_claim_started",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", userID,
		"activity_kind", string(kind),
		"day", today,
	)

	record, found, err := u.Idempotency.GetRecord(ctx, idempotencyKey, now)
	if err != nil {
		return ClaimDailyRewardResult{}, err
	}
	if found {
		// A reused idempotency key must map to an identical request payload.
		if record.RequestHash != requestHash {
			return ClaimDailyRewardResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var replayed ClaimDailyRewardResult
		if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
			return ClaimDailyRewardResult{}, err
		}
		replayed.Replayed = true
		logger.Info("daily claim replayed from idempotency",
			"event", "rewards_claim_replayed",
			"module", "player-engagement/rewards-service",
			"layer", "application",
			"user_id", userID,
			"activity_kind", string(kind),
		)
		return replayed, nil
	}

	calendar := application.ResolveCalendar(ctx, u.Rewards, u.Logger)

	var result ClaimDailyRewardResult
	attempts := u.maxSwapAttempts()
	for attempt := 1; ; attempt++ {
		result, err = u.applyClaim(ctx, userID, kind, calendar, now, today)
		if err == nil {
			break
		}
		if !errors.Is(err, domainerrors.ErrVersionConflict) {
			if errors.Is(err, domainerrors.ErrAlreadyClaimed) {
				logger.Warn("daily claim rejected, already claimed",
					"event", "rewards_claim_already_claimed",
					"module", "player-engagement/rewards-service",
					"layer", "application",
					"user_id", userID,
					"activity_kind", string(kind),
					"day", today,
				)
			}
			return ClaimDailyRewardResult{}, err
		}
		if attempt >= attempts {
			logger.Error("daily claim retries exhausted",
				"event", "rewards_claim_cas_exhausted",
				"module", "player-engagement/rewards-service",
				"layer", "application",
				"user_id", userID,
				"attempts", attempts,
			)
			return ClaimDailyRewardResult{}, domainerrors.ErrConcurrentUpdate
		}
		logger.Info("daily claim retrying after version conflict",
			"event", "rewards_claim_cas_retry",
			"module", "player-engagement/rewards-service",
			"layer", "application",
			"user_id", userID,
			"attempt", attempt,
		)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return ClaimDailyRewardResult{}, err
	}
	if err := u.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             idempotencyKey,
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(u.idempotencyTTL()),
	}); err != nil {
		return ClaimDailyRewardResult{}, err
	}

	logger.Info("daily claim completed",
		"event", "rewards_claim_completed",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", userID,
		"activity_kind", string(kind),
		"reward_day", result.Reward.Day,
		"reward_amount", result.Reward.Amount,
		"new_streak", result.NewStreak,
		"level", result.Level,
		"leveled_up", result.LeveledUp,
	)
	return result, nil
}

// applyClaim performs one optimistic attempt: load, mutate, swap.
func (u ClaimDailyRewardUseCase) applyClaim(
	ctx context.Context,
	userID string,
	kind entities.ActivityKind,
	calendar services.RewardCalendar,
	now time.Time,
	today string,
) (ClaimDailyRewardResult, error) {
	profile, err := u.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return ClaimDailyRewardResult{}, err
	}
	if profile.ClaimedOn(today, kind) {
		return ClaimDailyRewardResult{}, domainerrors.ErrAlreadyClaimed
	}

	streakKey := kind.StreakKey()
	state, err := services.AdvanceStreak(profile.Streak(streakKey), now)
	if err != nil {
		if errors.Is(err, domainerrors.ErrActivityAlreadyRecorded) {
			return ClaimDailyRewardResult{}, domainerrors.ErrAlreadyClaimed
		}
		return ClaimDailyRewardResult{}, err
	}

	entry := calendar.EntryForStreak(state.CurrentStreak)
	if kind == entities.ActivityGalaxyExplorer {
		entry = services.GalaxyExplorerReward()
	}

	levelBefore := services.LevelForExperience(profile.Experience)
	profile.Experience += entry.Amount
	profile.Level = services.LevelForExperience(profile.Experience)
	leveledUp := profile.Level > levelBefore

	claim := entities.ClaimRecord{
		Date:         today,
		ActivityKind: kind,
		Reward:       entry,
		StreakCount:  state.CurrentStreak,
		ClaimedAt:    now,
	}
	profile.SetStreak(streakKey, state)
	profile.ClaimHistory = append(profile.ClaimHistory, claim)

	var collectible *entities.Collectible
	if entry.MintsCollectible() {
		nftID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return ClaimDailyRewardResult{}, err
		}
		card, err := entities.NewCollectible(nftID, userID, entry, state.CurrentStreak, today)
		if err != nil {
			return ClaimDailyRewardResult{}, err
		}
		profile.Collectibles = append(profile.Collectibles, card)
		collectible = &card
	}

	services.UnlockAchievements(&profile, now)
	profile.UpdatedAt = now.UTC()

	events, err := u.buildEvents(ctx, userID, kind, entry, state.CurrentStreak, profile.Level, leveledUp, now)
	if err != nil {
		return ClaimDailyRewardResult{}, err
	}

	expectedVersion := profile.Version
	profile.Version = expectedVersion + 1
	if err := u.Profiles.CompareAndSwapProfile(ctx, userID, expectedVersion, profile, events); err != nil {
		return ClaimDailyRewardResult{}, err
	}

	message := fmt.Sprintf("Reward claimed! +%d experience (level %d)", entry.Amount, profile.Level)
	if leveledUp {
		message = fmt.Sprintf("Level up! +%d experience, you reached level %d", entry.Amount, profile.Level)
	}
	return ClaimDailyRewardResult{
		Reward:      entry,
		Claim:       claim,
		NewStreak:   state.CurrentStreak,
		Level:       profile.Level,
		Experience:  profile.Experience,
		LeveledUp:   leveledUp,
		Collectible: collectible,
		Message:     message,
	}, nil
}

func (u ClaimDailyRewardUseCase) buildEvents(
	ctx context.Context,
	userID string,
	kind entities.ActivityKind,
	entry entities.RewardEntry,
	streak int,
	level int,
	leveledUp bool,
	now time.Time,
) ([]ports.EngagementEvent, error) {
	claimedID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return nil, err
	}
	events := []ports.EngagementEvent{{
		EventID:      claimedID,
		EventType:    rewardClaimedEventType,
		UserID:       userID,
		ActivityKind: string(kind),
		Day:          entry.Day,
		Amount:       entry.Amount,
		StreakCount:  streak,
		Level:        level,
		OccurredAt:   now,
	}}
	if leveledUp {
		levelUpID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return nil, err
		}
		events = append(events, ports.EngagementEvent{
			EventID:      levelUpID,
			EventType:    levelUpEventType,
			UserID:       userID,
			ActivityKind: string(kind),
			Level:        level,
			OccurredAt:   now,
		})
	}
	return events, nil
}

func (u ClaimDailyRewardUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}

func (u ClaimDailyRewardUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func (u ClaimDailyRewardUseCase) maxSwapAttempts() int {
	if u.MaxSwapAttempts <= 0 {
		return defaultSwapAttempts
	}
	return u.MaxSwapAttempts
}

func resolveClaimIdempotencyKey(cmd ClaimDailyRewardCommand, kind entities.ActivityKind, day string) string {
	if strings.TrimSpace(cmd.IdempotencyKey) != "" {
		return strings.TrimSpace(cmd.IdempotencyKey)
	}
	// Day-scoped fallback so a retried claim replays today and a fresh key
	// forms tomorrow.
	return fmt.Sprintf("rewards:%s:%s:%s:claim", strings.TrimSpace(cmd.UserID), kind, day)
}

func hashStrings(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
