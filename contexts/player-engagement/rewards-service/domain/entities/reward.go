package entities

// ActivityKind identifies which engagement loop a claim or activity belongs to.
type ActivityKind string

const (
	ActivityDailyStreak    ActivityKind = "daily_streak"
	ActivityGalaxyExplorer ActivityKind = "galaxy_explorer"
)

// StreakKey returns the profile streak bucket the activity kind advances.
// Daily streak claims track the daily_login streak; the names differ because
// the login streak predates the claim endpoint.
func (k ActivityKind) StreakKey() StreakKey {
	if k == ActivityGalaxyExplorer {
		return StreakGalaxyExplorer
	}
	return StreakDailyLogin
}

func IsValidActivityKind(k ActivityKind) bool {
	return k == ActivityDailyStreak || k == ActivityGalaxyExplorer
}

type RewardKind string

const (
	RewardCredits        RewardKind = "credits"
	RewardMysteryNFT     RewardKind = "mystery_nft"
	RewardPremiumVariant RewardKind = "premium_variant"
	RewardGalaxyCredits  RewardKind = "galaxy_credits"
)

// RewardEntry is one cell of the seven-day reward calendar, or the flat
// galaxy explorer bonus. Amount doubles as the experience delta on claim.
type RewardEntry struct {
	Day         int
	Amount      int
	Currency    string
	Kind        RewardKind
	Description string
	ImageURL    string
}

// MintsCollectible reports whether claiming this entry also mints a
// collectible card for the user's collection.
func (e RewardEntry) MintsCollectible() bool {
	return e.Kind == RewardMysteryNFT || e.Kind == RewardPremiumVariant
}
