package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/application/commands"
	"astrade/contexts/player-engagement/rewards-service/application/queries"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	httptransport "astrade/contexts/player-engagement/rewards-service/transport/http"
)

type Handler struct {
	DailyStatus     queries.DailyStatusUseCase
	ClaimDaily      commands.ClaimDailyRewardUseCase
	RecordActivity  commands.RecordActivityUseCase
	GetAchievements queries.GetAchievementsUseCase
	StreakInfo      queries.StreakInfoUseCase
	GetProfile      queries.GetProfileUseCase
	Collection      queries.CollectionUseCase
	Logger          *slog.Logger
}

// DailyStatusHandler godoc
// @Summary Get daily reward status
// @Description Returns streaks, the seven day reward board and today's claimable reward.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.DailyStatusResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/daily-status [get]
func (h Handler) DailyStatusHandler(ctx context.Context, userID string) (httptransport.DailyStatusResponse, error) {
	result, err := h.DailyStatus.Execute(ctx, queries.DailyStatusQuery{UserID: userID})
	if err != nil {
		return httptransport.DailyStatusResponse{}, err
	}

	week := make([]httptransport.WeekRewardDTO, 0, len(result.WeekRewards))
	for _, item := range result.WeekRewards {
		week = append(week, httptransport.WeekRewardDTO{
			Day:       item.Day,
			Reward:    mapReward(item.Reward),
			IsClaimed: item.IsClaimed,
			IsToday:   item.IsToday,
			IsLocked:  item.IsLocked,
		})
	}
	response := httptransport.DailyStatusResponse{
		CanClaim:           result.CanClaim,
		CurrentStreak:      result.CurrentStreak,
		LongestStreak:      result.LongestStreak,
		ClaimedToday:       result.ClaimedToday,
		NextRewardIn:       result.NextRewardIn,
		WeekRewards:        week,
		GalaxyExplorerDays: result.GalaxyExplorerDays,
	}
	if result.TodayReward != nil {
		reward := mapReward(*result.TodayReward)
		response.TodayReward = &reward
	}
	return response, nil
}

// ClaimDailyHandler godoc
// @Summary Claim today's reward
// @Description Claims the daily streak reward (or the galaxy explorer bonus) exactly once per UTC day.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body httptransport.ClaimDailyRequest false "Claim payload"
// @Success 200 {object} httptransport.ClaimDailyResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/claim-daily [post]
func (h Handler) ClaimDailyHandler(
	ctx context.Context,
	userID string,
	req httptransport.ClaimDailyRequest,
	idempotencyKey string,
) (httptransport.ClaimDailyResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("claim daily request received",
		"event", "http_claim_daily_received",
		"module", "player-engagement/rewards-service",
		"layer", "transport",
		"user_id", userID,
	)

	result, err := h.ClaimDaily.Execute(ctx, commands.ClaimDailyRewardCommand{
		UserID:         userID,
		ActivityKind:   req.ActivityKind,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.ClaimDailyResponse{}, err
	}

	response := httptransport.ClaimDailyResponse{
		Success:    true,
		Reward:     mapReward(result.Reward),
		NewStreak:  result.NewStreak,
		Level:      result.Level,
		Experience: result.Experience,
		LeveledUp:  result.LeveledUp,
		Message:    result.Message,
		Replayed:   result.Replayed,
	}
	if result.Collectible != nil {
		card := mapCollectible(*result.Collectible)
		response.Collectible = &card
	}
	return response, nil
}

// RecordActivityHandler godoc
// @Summary Record galaxy exploration activity
// @Description Registers one galaxy exploration ping per UTC day; repeats report success=false.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.RecordActivityResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/record-activity [post]
func (h Handler) RecordActivityHandler(ctx context.Context, userID string) (httptransport.RecordActivityResponse, error) {
	result, err := h.RecordActivity.Execute(ctx, commands.RecordActivityCommand{UserID: userID})
	if err != nil {
		return httptransport.RecordActivityResponse{}, err
	}
	return httptransport.RecordActivityResponse{
		Success:   result.Success,
		NewStreak: result.NewStreak,
		Message:   result.Message,
	}, nil
}

// AchievementsHandler godoc
// @Summary List achievements
// @Description Returns achievement progress plus level and experience.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.AchievementsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/achievements [get]
func (h Handler) AchievementsHandler(ctx context.Context, userID string) (httptransport.AchievementsResponse, error) {
	result, err := h.GetAchievements.Execute(ctx, queries.GetAchievementsQuery{UserID: userID})
	if err != nil {
		return httptransport.AchievementsResponse{}, err
	}
	return httptransport.AchievementsResponse{
		Achievements: mapAchievements(result.Achievements),
		Level:        result.Level,
		Experience:   result.Experience,
		TotalTrades:  result.TotalTrades,
	}, nil
}

// StreakInfoHandler godoc
// @Summary Get streak details
// @Description Returns current and longest streaks for both activity kinds.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.StreakInfoResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/streak-info [get]
func (h Handler) StreakInfoHandler(ctx context.Context, userID string) (httptransport.StreakInfoResponse, error) {
	result, err := h.StreakInfo.Execute(ctx, queries.StreakInfoQuery{UserID: userID})
	if err != nil {
		return httptransport.StreakInfoResponse{}, err
	}
	return httptransport.StreakInfoResponse{
		DailyLogin:     mapStreakDetail(result.DailyLogin),
		GalaxyExplorer: mapStreakDetail(result.GalaxyExplorer),
	}, nil
}

// ProfileHandler godoc
// @Summary Get engagement profile
// @Description Returns level, experience, achievements and the ten most recent rewards.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.ProfileResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/profile [get]
func (h Handler) ProfileHandler(ctx context.Context, userID string) (httptransport.ProfileResponse, error) {
	result, err := h.GetProfile.Execute(ctx, queries.GetProfileQuery{UserID: userID})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}

	recent := make([]httptransport.ClaimRecordDTO, 0, len(result.RecentRewards))
	for _, claim := range result.RecentRewards {
		recent = append(recent, httptransport.ClaimRecordDTO{
			Date:         claim.Date,
			ActivityKind: string(claim.ActivityKind),
			Reward:       mapReward(claim.Reward),
			StreakCount:  claim.StreakCount,
			ClaimedAt:    formatTimestamp(claim.ClaimedAt),
		})
	}
	return httptransport.ProfileResponse{
		UserID:        result.Profile.UserID,
		Level:         result.Profile.Level,
		Experience:    result.Profile.Experience,
		TotalTrades:   result.Profile.TotalTrades,
		TotalPnL:      result.Profile.TotalPnL,
		Achievements:  mapAchievements(result.Achievements),
		RecentRewards: recent,
		CreatedAt:     formatTimestamp(result.Profile.CreatedAt),
		UpdatedAt:     formatTimestamp(result.Profile.UpdatedAt),
	}, nil
}

// ListNFTsHandler godoc
// @Summary List reward collectibles
// @Description Returns the user's minted cards filtered by type and rarity, newest first.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Param nft_type query string false "Collectible type filter"
// @Param rarity query string false "Rarity filter"
// @Success 200 {object} httptransport.ListNFTsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/nfts [get]
func (h Handler) ListNFTsHandler(ctx context.Context, userID string, nftType string, rarity string) (httptransport.ListNFTsResponse, error) {
	result, err := h.Collection.List(ctx, queries.ListCollectiblesQuery{
		UserID: userID,
		Type:   nftType,
		Rarity: rarity,
	})
	if err != nil {
		return httptransport.ListNFTsResponse{}, err
	}
	return httptransport.ListNFTsResponse{
		Items: mapCollectibles(result.Items),
		Total: result.Total,
	}, nil
}

// GetNFTHandler godoc
// @Summary Get one collectible
// @Description Returns a single minted card by id.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Param nft_id path string true "Collectible id"
// @Success 200 {object} httptransport.GetNFTResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/nfts/{nft_id} [get]
func (h Handler) GetNFTHandler(ctx context.Context, userID string, nftID string) (httptransport.GetNFTResponse, error) {
	result, err := h.Collection.Get(ctx, queries.GetCollectibleQuery{UserID: userID, NFTID: nftID})
	if err != nil {
		return httptransport.GetNFTResponse{}, err
	}
	return httptransport.GetNFTResponse{Item: mapCollectible(result.Item)}, nil
}

// NFTStatsHandler godoc
// @Summary Get collection statistics
// @Description Returns collectible totals grouped by type and rarity plus recent acquisitions.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.NFTStatsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/rewards/v1/nfts/stats [get]
func (h Handler) NFTStatsHandler(ctx context.Context, userID string) (httptransport.NFTStatsResponse, error) {
	result, err := h.Collection.Stats(ctx, queries.CollectionStatsQuery{UserID: userID})
	if err != nil {
		return httptransport.NFTStatsResponse{}, err
	}
	return httptransport.NFTStatsResponse{
		TotalNFTs:          result.Total,
		ByType:             result.ByType,
		ByRarity:           result.ByRarity,
		RecentAcquisitions: mapCollectibles(result.RecentAcquisitions),
	}, nil
}

func mapReward(entry entities.RewardEntry) httptransport.RewardDTO {
	return httptransport.RewardDTO{
		Day:         entry.Day,
		Amount:      entry.Amount,
		Currency:    entry.Currency,
		Kind:        string(entry.Kind),
		Description: entry.Description,
		ImageURL:    entry.ImageURL,
	}
}

func mapAchievements(achievements []entities.Achievement) []httptransport.AchievementDTO {
	items := make([]httptransport.AchievementDTO, 0, len(achievements))
	for _, achievement := range achievements {
		item := httptransport.AchievementDTO{
			ID:          achievement.ID,
			Name:        achievement.Name,
			Description: achievement.Description,
			Unlocked:    achievement.Unlocked,
			Progress:    achievement.Progress,
		}
		if !achievement.UnlockedAt.IsZero() {
			item.UnlockedAt = formatTimestamp(achievement.UnlockedAt)
		}
		items = append(items, item)
	}
	return items
}

func mapStreakDetail(detail queries.StreakDetail) httptransport.StreakDetailDTO {
	return httptransport.StreakDetailDTO{
		CurrentStreak:    detail.CurrentStreak,
		LongestStreak:    detail.LongestStreak,
		LastActivityDate: detail.LastActivityDate,
		ActiveToday:      detail.ActiveToday,
	}
}

func mapCollectibles(cards []entities.Collectible) []httptransport.CollectibleDTO {
	items := make([]httptransport.CollectibleDTO, 0, len(cards))
	for _, card := range cards {
		items = append(items, mapCollectible(card))
	}
	return items
}

func mapCollectible(card entities.Collectible) httptransport.CollectibleDTO {
	return httptransport.CollectibleDTO{
		NFTID:        card.NFTID,
		NFTType:      card.NFTType,
		Name:         card.Name,
		Description:  card.Description,
		ImageURL:     card.ImageURL,
		Rarity:       string(card.Rarity),
		AcquiredDate: card.AcquiredDate,
		AcquiredFrom: card.AcquiredFrom,
		Metadata: httptransport.CollectibleMetadataDTO{
			DayNumber:   card.Metadata.DayNumber,
			StreakCount: card.Metadata.StreakCount,
			RewardKind:  string(card.Metadata.RewardKind),
		},
	}
}

func formatTimestamp(value time.Time) string {
	return value.UTC().Format("2006-01-02T15:04:05Z")
}
