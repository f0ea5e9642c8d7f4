package rewardsservice

import (
	"log/slog"
	"time"

	httpadapter "astrade/contexts/player-engagement/rewards-service/adapters/http"
	"astrade/contexts/player-engagement/rewards-service/adapters/memory"
	"astrade/contexts/player-engagement/rewards-service/application/commands"
	"astrade/contexts/player-engagement/rewards-service/application/queries"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

// Module is the composition surface for the rewards service within AsTrade.
// Runtime wiring should consume Handler; Store is exposed for tests/inspection.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Profiles        ports.ProfileStore
	Rewards         ports.RewardConfigSource
	Idempotency     ports.IdempotencyStore
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	IdempotencyTTL  time.Duration
	MaxSwapAttempts int
	Logger          *slog.Logger
}

// NewModule wires the rewards use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	dailyStatus := queries.DailyStatusUseCase{
		Profiles: deps.Profiles,
		Rewards:  deps.Rewards,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	achievements := queries.GetAchievementsUseCase{
		Profiles: deps.Profiles,
		Logger:   deps.Logger,
	}
	streakInfo := queries.StreakInfoUseCase{
		Profiles: deps.Profiles,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	profile := queries.GetProfileUseCase{
		Profiles: deps.Profiles,
		Logger:   deps.Logger,
	}
	collection := queries.CollectionUseCase{
		Profiles: deps.Profiles,
		Logger:   deps.Logger,
	}
	claimDaily := commands.ClaimDailyRewardUseCase{
		Profiles:        deps.Profiles,
		Rewards:         deps.Rewards,
		Idempotency:     deps.Idempotency,
		Clock:           deps.Clock,
		IDGenerator:     deps.IDGenerator,
		IdempotencyTTL:  deps.IdempotencyTTL,
		MaxSwapAttempts: deps.MaxSwapAttempts,
		Logger:          deps.Logger,
	}
	recordActivity := commands.RecordActivityUseCase{
		Profiles:        deps.Profiles,
		Clock:           deps.Clock,
		MaxSwapAttempts: deps.MaxSwapAttempts,
		Logger:          deps.Logger,
	}

	handler := httpadapter.Handler{
		DailyStatus:     dailyStatus,
		ClaimDaily:      claimDaily,
		RecordActivity:  recordActivity,
		GetAchievements: achievements,
		StreakInfo:      streakInfo,
		GetProfile:      profile,
		Collection:      collection,
		Logger:          deps.Logger,
	}

	return Module{Handler: handler}
}

// NewInMemoryModule wires the rewards use-cases against in-memory adapters
// for local runtime and tests.
func NewInMemoryModule(seedProfiles []entities.Profile, logger *slog.Logger) Module {
	store := memory.NewStore(seedProfiles, logger)
	module := NewModule(Dependencies{
		Profiles:        store,
		Rewards:         nil,
		Idempotency:     store,
		Clock:           store,
		IDGenerator:     store,
		IdempotencyTTL:  7 * 24 * time.Hour,
		MaxSwapAttempts: 3,
		Logger:          logger,
	})
	module.Store = store
	return module
}
