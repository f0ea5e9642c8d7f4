package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	rewardsservice "astrade/contexts/player-engagement/rewards-service"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	"astrade/contexts/player-engagement/rewards-service/domain/services"
	httptransport "astrade/contexts/player-engagement/rewards-service/transport/http"
)

func utcDayAgo(days int) string {
	return services.FormatDay(time.Now().UTC().AddDate(0, 0, -days))
}

func rewardsProfileWithStreak(userID string, current int, longest int, lastActivity string) entities.Profile {
	profile, _ := entities.NewProfile(userID, time.Now().UTC().AddDate(0, 0, -30))
	profile.SetStreak(entities.StreakDailyLogin, entities.StreakState{
		CurrentStreak:    current,
		LongestStreak:    longest,
		LastActivityDate: lastActivity,
	})
	return profile
}

func TestRewardsClaimThirdDayMintsMysteryCard(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-1", 2, 5, utcDayAgo(1)),
	}, nil)
	ctx := context.Background()

	claim, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-1", httptransport.ClaimDailyRequest{}, "idem-rew-claim-1")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claim.Reward.Amount != 100 || claim.Reward.Kind != "mystery_nft" {
		t.Fatalf("expected day 3 mystery reward, got %+v", claim.Reward)
	}
	if claim.NewStreak != 3 {
		t.Fatalf("expected streak 3, got %d", claim.NewStreak)
	}
	if claim.Collectible == nil {
		t.Fatalf("expected a minted collectible on day 3")
	}
	if claim.Collectible.Rarity != "common" {
		t.Fatalf("expected common rarity for mystery card, got %s", claim.Collectible.Rarity)
	}
	if claim.Experience != 100 || claim.Level != 1 {
		t.Fatalf("expected 100 experience at level 1, got %d/%d", claim.Experience, claim.Level)
	}

	if _, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-1", httptransport.ClaimDailyRequest{}, "idem-rew-claim-2"); !errors.Is(err, domainerrors.ErrAlreadyClaimed) {
		t.Fatalf("expected already claimed on second claim, got %v", err)
	}
}

func TestRewardsClaimReplaySameIdempotencyKey(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-2", 2, 5, utcDayAgo(1)),
	}, nil)
	ctx := context.Background()

	first, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-2", httptransport.ClaimDailyRequest{}, "idem-rew-replay-1")
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	second, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-2", httptransport.ClaimDailyRequest{}, "idem-rew-replay-1")
	if err != nil {
		t.Fatalf("replayed claim failed: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("expected replayed response")
	}
	if first.NewStreak != second.NewStreak || first.Experience != second.Experience {
		t.Fatalf("expected identical replayed payload, got %+v vs %+v", first, second)
	}
}

func TestRewardsClaimAfterLongIdleRestartsAtDayOne(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-3", 5, 5, utcDayAgo(10)),
	}, nil)
	ctx := context.Background()

	claim, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-3", httptransport.ClaimDailyRequest{}, "idem-rew-idle-1")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claim.Reward.Day != 1 || claim.Reward.Amount != 50 {
		t.Fatalf("expected day 1 reward of 50 after the break, got %+v", claim.Reward)
	}
	if claim.NewStreak != 1 {
		t.Fatalf("expected streak restart at 1, got %d", claim.NewStreak)
	}

	info, err := module.Handler.StreakInfoHandler(ctx, "user-rew-3")
	if err != nil {
		t.Fatalf("streak info failed: %v", err)
	}
	if info.DailyLogin.LongestStreak != 5 {
		t.Fatalf("longest streak must survive the break, got %d", info.DailyLogin.LongestStreak)
	}
	if !info.DailyLogin.ActiveToday {
		t.Fatalf("expected daily login active today after the claim")
	}
}

func TestRewardsDailyStatusBeforeAndAfterClaim(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-4", 0, 0, ""),
	}, nil)
	ctx := context.Background()

	status, err := module.Handler.DailyStatusHandler(ctx, "user-rew-4")
	if err != nil {
		t.Fatalf("daily status failed: %v", err)
	}
	if !status.CanClaim || status.ClaimedToday {
		t.Fatalf("fresh profile must be claimable, got %+v", status)
	}
	if len(status.WeekRewards) != 7 {
		t.Fatalf("expected 7 week slots, got %d", len(status.WeekRewards))
	}
	if status.TodayReward == nil || status.TodayReward.Amount != 50 {
		t.Fatalf("expected day 1 reward of 50 as today's slot, got %+v", status.TodayReward)
	}

	if _, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-4", httptransport.ClaimDailyRequest{}, "idem-rew-status-1"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	claimed, err := module.Handler.DailyStatusHandler(ctx, "user-rew-4")
	if err != nil {
		t.Fatalf("daily status after claim failed: %v", err)
	}
	if claimed.CanClaim || !claimed.ClaimedToday {
		t.Fatalf("claimed day must block further claims, got %+v", claimed)
	}
	if claimed.CurrentStreak != 1 {
		t.Fatalf("expected current streak 1, got %d", claimed.CurrentStreak)
	}
	if claimed.NextRewardIn == "" {
		t.Fatalf("expected countdown to the next UTC midnight")
	}
	if !claimed.WeekRewards[0].IsClaimed {
		t.Fatalf("expected day 1 slot marked claimed")
	}
}

func TestRewardsRecordActivityRepeatIsSoftFailure(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-5", 0, 0, ""),
	}, nil)
	ctx := context.Background()

	first, err := module.Handler.RecordActivityHandler(ctx, "user-rew-5")
	if err != nil {
		t.Fatalf("record activity failed: %v", err)
	}
	if !first.Success || first.NewStreak != 1 {
		t.Fatalf("expected first exploration recorded, got %+v", first)
	}

	repeat, err := module.Handler.RecordActivityHandler(ctx, "user-rew-5")
	if err != nil {
		t.Fatalf("repeated record must not error: %v", err)
	}
	if repeat.Success {
		t.Fatalf("repeated record must report success=false")
	}

	info, err := module.Handler.StreakInfoHandler(ctx, "user-rew-5")
	if err != nil {
		t.Fatalf("streak info failed: %v", err)
	}
	if info.GalaxyExplorer.CurrentStreak != 1 {
		t.Fatalf("expected galaxy streak 1, got %d", info.GalaxyExplorer.CurrentStreak)
	}
}

func TestRewardsSeventhDayUnlocksWeekWarrior(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-6", 6, 6, utcDayAgo(1)),
	}, nil)
	ctx := context.Background()

	claim, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-6", httptransport.ClaimDailyRequest{}, "idem-rew-week-1")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claim.NewStreak != 7 {
		t.Fatalf("expected streak 7, got %d", claim.NewStreak)
	}
	if claim.Reward.Amount != 500 || claim.Reward.Kind != "premium_variant" {
		t.Fatalf("expected day 7 premium reward, got %+v", claim.Reward)
	}
	if claim.Collectible == nil || claim.Collectible.Rarity != "rare" {
		t.Fatalf("expected rare premium collectible, got %+v", claim.Collectible)
	}

	achievements, err := module.Handler.AchievementsHandler(ctx, "user-rew-6")
	if err != nil {
		t.Fatalf("achievements failed: %v", err)
	}
	found := false
	for _, item := range achievements.Achievements {
		if item.ID == "week_warrior" {
			found = true
			if !item.Unlocked || item.Progress != 100 {
				t.Fatalf("expected unlocked week_warrior, got %+v", item)
			}
			if item.UnlockedAt == "" {
				t.Fatalf("expected unlock timestamp on week_warrior")
			}
		}
	}
	if !found {
		t.Fatalf("expected week_warrior in achievement list")
	}
}

func TestRewardsCollectionEndpoints(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-7", 2, 2, utcDayAgo(1)),
	}, nil)
	ctx := context.Background()

	claim, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-7", httptransport.ClaimDailyRequest{}, "idem-rew-nft-1")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claim.Collectible == nil {
		t.Fatalf("expected minted collectible")
	}

	list, err := module.Handler.ListNFTsHandler(ctx, "user-rew-7", "", "")
	if err != nil {
		t.Fatalf("list nfts failed: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 1 {
		t.Fatalf("expected one collectible, got %+v", list)
	}
	card := list.Items[0]
	if card.NFTType != "daily_reward" {
		t.Fatalf("unexpected collectible type %s", card.NFTType)
	}
	if card.AcquiredFrom != "daily_reward_day_3" {
		t.Fatalf("unexpected acquisition source %s", card.AcquiredFrom)
	}
	if card.Metadata.DayNumber != 3 || card.Metadata.StreakCount != 3 {
		t.Fatalf("unexpected collectible metadata %+v", card.Metadata)
	}

	filtered, err := module.Handler.ListNFTsHandler(ctx, "user-rew-7", "daily_reward", "rare")
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if filtered.Total != 0 {
		t.Fatalf("rare filter must exclude the common card, got %+v", filtered)
	}

	single, err := module.Handler.GetNFTHandler(ctx, "user-rew-7", card.NFTID)
	if err != nil {
		t.Fatalf("get nft failed: %v", err)
	}
	if single.Item.NFTID != card.NFTID {
		t.Fatalf("expected card %s, got %s", card.NFTID, single.Item.NFTID)
	}

	if _, err := module.Handler.GetNFTHandler(ctx, "user-rew-7", "missing-card"); !errors.Is(err, domainerrors.ErrCollectibleNotFound) {
		t.Fatalf("expected collectible not found, got %v", err)
	}

	stats, err := module.Handler.NFTStatsHandler(ctx, "user-rew-7")
	if err != nil {
		t.Fatalf("nft stats failed: %v", err)
	}
	if stats.TotalNFTs != 1 {
		t.Fatalf("expected one collectible in stats, got %d", stats.TotalNFTs)
	}
	if stats.ByType["daily_reward"] != 1 || stats.ByRarity["common"] != 1 {
		t.Fatalf("unexpected stats buckets %+v", stats)
	}
	if len(stats.RecentAcquisitions) != 1 {
		t.Fatalf("expected one recent acquisition, got %d", len(stats.RecentAcquisitions))
	}
}

func TestRewardsProfileListsRecentClaims(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-8", 0, 0, ""),
	}, nil)
	ctx := context.Background()

	if _, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-8", httptransport.ClaimDailyRequest{}, "idem-rew-prof-1"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	profile, err := module.Handler.ProfileHandler(ctx, "user-rew-8")
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.UserID != "user-rew-8" {
		t.Fatalf("unexpected user id %s", profile.UserID)
	}
	if profile.Level != 1 || profile.Experience != 50 {
		t.Fatalf("expected level 1 with 50 experience, got %d/%d", profile.Level, profile.Experience)
	}
	if len(profile.RecentRewards) != 1 {
		t.Fatalf("expected one recent reward, got %d", len(profile.RecentRewards))
	}
	if profile.RecentRewards[0].ActivityKind != "daily_streak" {
		t.Fatalf("unexpected activity kind %s", profile.RecentRewards[0].ActivityKind)
	}
}

func TestRewardsIdempotencyKeyReuseAcrossUsersConflicts(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-9", 0, 0, ""),
		rewardsProfileWithStreak("user-rew-10", 0, 0, ""),
	}, nil)
	ctx := context.Background()

	if _, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-9", httptransport.ClaimDailyRequest{}, "idem-rew-shared"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if _, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-10", httptransport.ClaimDailyRequest{}, "idem-rew-shared"); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected idempotency key conflict, got %v", err)
	}
}

func TestRewardsGalaxyClaimBypassesCalendar(t *testing.T) {
	module := rewardsservice.NewInMemoryModule([]entities.Profile{
		rewardsProfileWithStreak("user-rew-11", 0, 0, ""),
	}, nil)
	ctx := context.Background()

	claim, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-11", httptransport.ClaimDailyRequest{ActivityKind: "galaxy_explorer"}, "idem-rew-galaxy-1")
	if err != nil {
		t.Fatalf("galaxy claim failed: %v", err)
	}
	if claim.Reward.Amount != 25 || claim.Reward.Kind != "galaxy_credits" {
		t.Fatalf("expected flat galaxy bonus, got %+v", claim.Reward)
	}
	if claim.Collectible != nil {
		t.Fatalf("galaxy bonus must not mint a collectible")
	}

	if _, err := module.Handler.ClaimDailyHandler(ctx, "user-rew-11", httptransport.ClaimDailyRequest{ActivityKind: "rover_pilot"}, "idem-rew-galaxy-2"); !errors.Is(err, domainerrors.ErrInvalidActivityKind) {
		t.Fatalf("expected invalid activity kind, got %v", err)
	}
}

func TestRewardsUnknownUserReturnsNotFound(t *testing.T) {
	module := rewardsservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.DailyStatusHandler(ctx, "user-missing"); !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
	if _, err := module.Handler.ClaimDailyHandler(ctx, "user-missing", httptransport.ClaimDailyRequest{}, "idem-rew-missing"); !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected profile not found on claim, got %v", err)
	}
}
