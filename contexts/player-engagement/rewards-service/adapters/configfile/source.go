package configfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"

	"gopkg.in/yaml.v2"
)

// Source loads the reward calendar from a YAML file. A missing path or
// missing file yields no entries so callers fall back to the built-in
// calendar.
type Source struct {
	Path   string
	Logger *slog.Logger
}

type calendarFile struct {
	DailyRewards []rewardEntryConfig `yaml:"daily_rewards"`
}

type rewardEntryConfig struct {
	Day         int    `yaml:"day"`
	Amount      int    `yaml:"amount"`
	Currency    string `yaml:"currency"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
}

func (s Source) LoadCalendar(_ context.Context) ([]entities.RewardEntry, error) {
	if s.Path == "" {
		return nil, nil
	}

	logger := application.ResolveLogger(s.Logger)
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("rewards config file absent",
				"event", "rewards_config_file_absent",
				"module", "player-engagement/rewards-service",
				"layer", "adapter",
				"path", s.Path,
			)
			return nil, nil
		}
		return nil, fmt.Errorf("read rewards config: %w", err)
	}

	var file calendarFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode rewards config: %w", err)
	}

	entries := make([]entities.RewardEntry, 0, len(file.DailyRewards))
	for _, item := range file.DailyRewards {
		entries = append(entries, entities.RewardEntry{
			Day:         item.Day,
			Amount:      item.Amount,
			Currency:    item.Currency,
			Kind:        entities.RewardKind(item.Kind),
			Description: item.Description,
			ImageURL:    item.ImageURL,
		})
	}

	logger.Info("rewards config file loaded",
		"event", "rewards_config_file_loaded",
		"module", "player-engagement/rewards-service",
		"layer", "adapter",
		"path", s.Path,
		"entries_count", len(entries),
	)
	return entries, nil
}
