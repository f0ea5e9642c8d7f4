package httptransport

type RewardDTO struct {
	Day         int    `json:"day,omitempty"`
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type WeekRewardDTO struct {
	Day       int       `json:"day"`
	Reward    RewardDTO `json:"reward"`
	IsClaimed bool      `json:"is_claimed"`
	IsToday   bool      `json:"is_today"`
	IsLocked  bool      `json:"is_locked"`
}

type DailyStatusResponse struct {
	CanClaim           bool            `json:"can_claim"`
	CurrentStreak      int             `json:"current_streak"`
	LongestStreak      int             `json:"longest_streak"`
	ClaimedToday       bool            `json:"claimed_today"`
	TodayReward        *RewardDTO      `json:"today_reward,omitempty"`
	NextRewardIn       string          `json:"next_reward_in,omitempty"`
	WeekRewards        []WeekRewardDTO `json:"week_rewards"`
	GalaxyExplorerDays int             `json:"galaxy_explorer_days"`
}

type ClaimDailyRequest struct {
	ActivityKind string `json:"activity_kind,omitempty"`
}

type ClaimDailyResponse struct {
	Success     bool            `json:"success"`
	Reward      RewardDTO       `json:"reward"`
	NewStreak   int             `json:"new_streak"`
	Level       int             `json:"level"`
	Experience  int             `json:"experience"`
	LeveledUp   bool            `json:"leveled_up,omitempty"`
	Collectible *CollectibleDTO `json:"collectible,omitempty"`
	Message     string          `json:"message"`
	Replayed    bool            `json:"replayed,omitempty"`
}

type RecordActivityResponse struct {
	Success   bool   `json:"success"`
	NewStreak int    `json:"new_streak"`
	Message   string `json:"message"`
}

type AchievementDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
	UnlockedAt  string `json:"unlocked_at,omitempty"`
}

type AchievementsResponse struct {
	Achievements []AchievementDTO `json:"achievements"`
	Level        int              `json:"level"`
	Experience   int              `json:"experience"`
	TotalTrades  int              `json:"total_trades"`
}

type StreakDetailDTO struct {
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	LastActivityDate string `json:"last_activity_date,omitempty"`
	ActiveToday      bool   `json:"active_today"`
}

type StreakInfoResponse struct {
	DailyLogin     StreakDetailDTO `json:"daily_login"`
	GalaxyExplorer StreakDetailDTO `json:"galaxy_explorer"`
}

type ClaimRecordDTO struct {
	Date         string    `json:"date"`
	ActivityKind string    `json:"activity_kind"`
	Reward       RewardDTO `json:"reward"`
	StreakCount  int       `json:"streak_count"`
	ClaimedAt    string    `json:"claimed_at"`
}

type ProfileResponse struct {
	UserID        string           `json:"user_id"`
	Level         int              `json:"level"`
	Experience    int              `json:"experience"`
	TotalTrades   int              `json:"total_trades"`
	TotalPnL      float64          `json:"total_pnl"`
	Achievements  []AchievementDTO `json:"achievements"`
	RecentRewards []ClaimRecordDTO `json:"recent_rewards"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
}

type CollectibleMetadataDTO struct {
	DayNumber   int    `json:"day_number"`
	StreakCount int    `json:"streak_count"`
	RewardKind  string `json:"reward_type"`
}

type CollectibleDTO struct {
	NFTID        string                 `json:"nft_id"`
	NFTType      string                 `json:"nft_type"`
	Name         string                 `json:"nft_name"`
	Description  string                 `json:"nft_description"`
	ImageURL     string                 `json:"image_url,omitempty"`
	Rarity       string                 `json:"rarity"`
	AcquiredDate string                 `json:"acquired_date"`
	AcquiredFrom string                 `json:"acquired_from"`
	Metadata     CollectibleMetadataDTO `json:"metadata"`
}

type ListNFTsResponse struct {
	Items []CollectibleDTO `json:"items"`
	Total int              `json:"total"`
}

type GetNFTResponse struct {
	Item CollectibleDTO `json:"item"`
}

type NFTStatsResponse struct {
	TotalNFTs          int              `json:"total_nfts"`
	ByType             map[string]int   `json:"by_type"`
	ByRarity           map[string]int   `json:"by_rarity"`
	RecentAcquisitions []CollectibleDTO `json:"recent_acquisitions"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
