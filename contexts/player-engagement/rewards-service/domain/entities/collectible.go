package entities

import (
	"fmt"
	"strings"

	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
)

type Rarity string

const (
	RarityCommon Rarity = "common"
	RarityRare   Rarity = "rare"
)

const CollectibleTypeDailyReward = "daily_reward"

// CollectibleMetadata records how a card was earned.
type CollectibleMetadata struct {
	DayNumber   int        `json:"day_number"`
	StreakCount int        `json:"streak_count"`
	RewardKind  RewardKind `json:"reward_type"`
}

// Collectible is a card minted into the user's collection when a calendar
// entry of kind mystery_nft or premium_variant is claimed.
type Collectible struct {
	NFTID        string              `json:"nft_id"`
	UserID       string              `json:"user_id"`
	NFTType      string              `json:"nft_type"`
	Name         string              `json:"nft_name"`
	Description  string              `json:"nft_description"`
	ImageURL     string              `json:"image_url,omitempty"`
	Rarity       Rarity              `json:"rarity"`
	AcquiredDate string              `json:"acquired_date"`
	AcquiredFrom string              `json:"acquired_from"`
	Metadata     CollectibleMetadata `json:"metadata"`
}

// NewCollectible builds the card minted for a claimed calendar entry.
func NewCollectible(
	nftID string,
	userID string,
	entry RewardEntry,
	streakCount int,
	acquiredDate string,
) (Collectible, error) {
	if strings.TrimSpace(nftID) == "" || strings.TrimSpace(userID) == "" {
		return Collectible{}, domainerrors.ErrInvalidRequest
	}
	if !entry.MintsCollectible() {
		return Collectible{}, domainerrors.ErrInvalidRequest
	}

	rarity := RarityCommon
	if entry.Kind == RewardPremiumVariant {
		rarity = RarityRare
	}
	return Collectible{
		NFTID:        nftID,
		UserID:       userID,
		NFTType:      CollectibleTypeDailyReward,
		Name:         cardName(entry.Day),
		Description:  cardDescription(entry.Day),
		ImageURL:     entry.ImageURL,
		Rarity:       rarity,
		AcquiredDate: acquiredDate,
		AcquiredFrom: cardSource(entry.Day),
		Metadata: CollectibleMetadata{
			DayNumber:   entry.Day,
			StreakCount: streakCount,
			RewardKind:  entry.Kind,
		},
	}, nil
}

func cardName(day int) string {
	return fmt.Sprintf("Daily Reward Card - Day %d", day)
}

func cardDescription(day int) string {
	return fmt.Sprintf("Earned for reaching %d consecutive login days", day)
}

func cardSource(day int) string {
	return fmt.Sprintf("daily_reward_day_%d", day)
}
