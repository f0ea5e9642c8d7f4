package application

import (
	"context"
	"log/slog"

	"astrade/contexts/player-engagement/rewards-service/domain/services"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

// ResolveCalendar loads the configured reward table, falling back to the
// built-in calendar when no source is wired, the source is empty, or its
// contents fail validation. Configuration problems degrade, never fail.
func ResolveCalendar(
	ctx context.Context,
	source ports.RewardConfigSource,
	logger *slog.Logger,
) services.RewardCalendar {
	if source == nil {
		return services.DefaultCalendar()
	}

	entries, err := source.LoadCalendar(ctx)
	if err != nil {
		ResolveLogger(logger).Warn("reward config load failed, using default calendar",
			"event", "rewards_config_load_failed",
			"module", "player-engagement/rewards-service",
			"layer", "application",
			"error", err.Error(),
		)
		return services.DefaultCalendar()
	}
	if len(entries) == 0 {
		return services.DefaultCalendar()
	}

	calendar, err := services.NewCalendar(entries)
	if err != nil {
		ResolveLogger(logger).Warn("reward config rejected, using default calendar",
			"event", "rewards_config_invalid",
			"module", "player-engagement/rewards-service",
			"layer", "application",
			"error", err.Error(),
		)
		return services.DefaultCalendar()
	}
	return calendar
}
