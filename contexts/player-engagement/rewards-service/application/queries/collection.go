package queries

import (
	"context"
	"log/slog"
	"sort"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

const recentAcquisitionsLimit = 5

type ListCollectiblesQuery struct {
	UserID string
	Type   string
	Rarity string
}

type ListCollectiblesResult struct {
	Items []entities.Collectible
	Total int
}

type GetCollectibleQuery struct {
	UserID string
	NFTID  string
}

type GetCollectibleResult struct {
	Item entities.Collectible
}

type CollectionStatsQuery struct {
	UserID string
}

type CollectionStatsResult struct {
	Total              int
	ByType             map[string]int
	ByRarity           map[string]int
	RecentAcquisitions []entities.Collectible
}

// CollectionUseCase serves the player's minted card collection. All reads
// come from the profile aggregate, newest acquisitions first.
type CollectionUseCase struct {
	Profiles ports.ProfileStore
	Logger   *slog.Logger
}

func (u CollectionUseCase) List(ctx context.Context, query ListCollectiblesQuery) (ListCollectiblesResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("list collectibles started",
		"event", "list_collectibles_started",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", query.UserID,
	)

	profile, err := u.Profiles.GetProfile(ctx, query.UserID)
	if err != nil {
		return ListCollectiblesResult{}, err
	}

	items := make([]entities.Collectible, 0, len(profile.Collectibles))
	for _, card := range profile.Collectibles {
		if query.Type != "" && card.NFTType != query.Type {
			continue
		}
		if query.Rarity != "" && string(card.Rarity) != query.Rarity {
			continue
		}
		items = append(items, card)
	}
	sortByAcquiredDesc(items)

	logger.Info("list collectibles completed",
		"event", "list_collectibles_completed",
		"module", "player-engagement/rewards-service",
		"layer", "application",
		"user_id", query.UserID,
		"items_count", len(items),
	)
	return ListCollectiblesResult{Items: items, Total: len(items)}, nil
}

func (u CollectionUseCase) Get(ctx context.Context, query GetCollectibleQuery) (GetCollectibleResult, error) {
	profile, err := u.Profiles.GetProfile(ctx, query.UserID)
	if err != nil {
		return GetCollectibleResult{}, err
	}
	for _, card := range profile.Collectibles {
		if card.NFTID == query.NFTID {
			return GetCollectibleResult{Item: card}, nil
		}
	}
	return GetCollectibleResult{}, domainerrors.ErrCollectibleNotFound
}

func (u CollectionUseCase) Stats(ctx context.Context, query CollectionStatsQuery) (CollectionStatsResult, error) {
	profile, err := u.Profiles.GetProfile(ctx, query.UserID)
	if err != nil {
		return CollectionStatsResult{}, err
	}

	byType := make(map[string]int)
	byRarity := make(map[string]int)
	recent := make([]entities.Collectible, len(profile.Collectibles))
	copy(recent, profile.Collectibles)
	for _, card := range profile.Collectibles {
		byType[card.NFTType]++
		byRarity[string(card.Rarity)]++
	}
	sortByAcquiredDesc(recent)
	if len(recent) > recentAcquisitionsLimit {
		recent = recent[:recentAcquisitionsLimit]
	}

	return CollectionStatsResult{
		Total:              len(profile.Collectibles),
		ByType:             byType,
		ByRarity:           byRarity,
		RecentAcquisitions: recent,
	}, nil
}

func sortByAcquiredDesc(items []entities.Collectible) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AcquiredDate > items[j].AcquiredDate
	})
}
