package configfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
)

const calendarYAML = `daily_rewards:
  - day: 1
    amount: 60
    currency: credits
    kind: credits
    description: Login bonus
  - day: 2
    amount: 80
    currency: credits
    kind: credits
  - day: 3
    amount: 120
    currency: credits
    kind: mystery_nft
    description: Mystery card
    image_url: https://cdn.astrade.app/rewards/mystery.png
  - day: 4
    amount: 140
    currency: credits
    kind: credits
  - day: 5
    amount: 160
    currency: credits
    kind: credits
  - day: 6
    amount: 220
    currency: credits
    kind: credits
  - day: 7
    amount: 600
    currency: credits
    kind: premium_variant
`

func TestLoadCalendarParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewards.yaml")
	if err := os.WriteFile(path, []byte(calendarYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	entries, err := Source{Path: path}.LoadCalendar(context.Background())
	if err != nil {
		t.Fatalf("load calendar failed: %v", err)
	}
	if len(entries) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(entries))
	}
	if entries[0].Amount != 60 || entries[0].Kind != entities.RewardCredits {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[2].Kind != entities.RewardMysteryNFT || entries[2].ImageURL == "" {
		t.Fatalf("unexpected mystery entry %+v", entries[2])
	}
	if entries[6].Amount != 600 || entries[6].Kind != entities.RewardPremiumVariant {
		t.Fatalf("unexpected premium entry %+v", entries[6])
	}
}

func TestLoadCalendarMissingFileIsNotAnError(t *testing.T) {
	entries, err := Source{Path: filepath.Join(t.TempDir(), "absent.yaml")}.LoadCalendar(context.Background())
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}

func TestLoadCalendarEmptyPath(t *testing.T) {
	entries, err := Source{}.LoadCalendar(context.Background())
	if err != nil {
		t.Fatalf("empty path must not error: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}

func TestLoadCalendarRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("daily_rewards: [not: closed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := (Source{Path: path}).LoadCalendar(context.Background()); err == nil {
		t.Fatalf("expected decode error for malformed yaml")
	}
}
