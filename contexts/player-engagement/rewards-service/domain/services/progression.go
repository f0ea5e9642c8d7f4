package services

import (
	"time"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
)

// ExperiencePerLevel is the flat experience cost of each level.
const ExperiencePerLevel = 1000

// LevelForExperience converts accumulated experience into a level:
// level 1 at 0, level 2 at 1000, level 3 at 2000, and so on.
func LevelForExperience(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/ExperiencePerLevel + 1
}

// AchievementSpec describes one streak-driven achievement.
type AchievementSpec struct {
	ID          string
	Name        string
	Description string
	Streak      entities.StreakKey
	Target      int
}

// AchievementCatalog lists every streak achievement the engine evaluates.
func AchievementCatalog() []AchievementSpec {
	return []AchievementSpec{
		{
			ID:          "week_warrior",
			Name:        "Week Warrior",
			Description: "Complete 7 consecutive daily login days",
			Streak:      entities.StreakDailyLogin,
			Target:      7,
		},
		{
			ID:          "galaxy_master",
			Name:        "Galaxy Master",
			Description: "Explore the galaxy for 30 consecutive days",
			Streak:      entities.StreakGalaxyExplorer,
			Target:      30,
		},
	}
}

// AchievementProgress derives completion percent from the current streak,
// capped at 100.
func AchievementProgress(current int, target int) int {
	if target <= 0 {
		return 0
	}
	if current < 0 {
		current = 0
	}
	progress := current * 100 / target
	if progress > 100 {
		progress = 100
	}
	return progress
}

// UnlockAchievements stores any achievement whose target the profile's
// longest streak has reached. Unlocks are sticky: entries already stored stay
// untouched. Returns the newly unlocked achievements.
func UnlockAchievements(profile *entities.Profile, now time.Time) []entities.Achievement {
	var unlocked []entities.Achievement
	for _, spec := range AchievementCatalog() {
		if profile.HasUnlocked(spec.ID) {
			continue
		}
		if profile.Streak(spec.Streak).LongestStreak < spec.Target {
			continue
		}
		item := entities.Achievement{
			ID:          spec.ID,
			Name:        spec.Name,
			Description: spec.Description,
			Unlocked:    true,
			Progress:    100,
			UnlockedAt:  now.UTC(),
		}
		profile.Achievements = append(profile.Achievements, item)
		unlocked = append(unlocked, item)
	}
	return unlocked
}

// AchievementView derives the achievement list shown to the user: stored
// unlocks first (progress 100), then in-progress entries for achievements
// whose streak has started. Untouched streaks stay hidden.
func AchievementView(profile entities.Profile) []entities.Achievement {
	items := make([]entities.Achievement, 0, len(AchievementCatalog()))
	for _, spec := range AchievementCatalog() {
		if stored, ok := storedAchievement(profile, spec.ID); ok {
			stored.Progress = 100
			items = append(items, stored)
			continue
		}
		current := profile.Streak(spec.Streak).CurrentStreak
		if current <= 0 {
			continue
		}
		items = append(items, entities.Achievement{
			ID:          spec.ID,
			Name:        spec.Name,
			Description: spec.Description,
			Unlocked:    false,
			Progress:    AchievementProgress(current, spec.Target),
		})
	}
	return items
}

func storedAchievement(profile entities.Profile, id string) (entities.Achievement, bool) {
	for _, item := range profile.Achievements {
		if item.ID == id {
			return item, true
		}
	}
	return entities.Achievement{}, false
}
