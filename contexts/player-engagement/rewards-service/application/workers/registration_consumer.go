package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

const (
	userRegisteredTopic  = "identity.user.registered"
	defaultConsumerGroup = "rewards-registration-cg"
)

// RegistrationConsumer seeds an engagement profile for every registered
// account so reward reads never miss.
type RegistrationConsumer struct {
	Subscriber    ports.EventSubscriber
	Profiles      ports.ProfileStore
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	ConsumerGroup string
	Topic         string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

type userRegisteredPayload struct {
	UserID string `json:"user_id"`
}

func (c RegistrationConsumer) Start(ctx context.Context) error {
	group := c.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}
	topic := c.Topic
	if topic == "" {
		topic = userRegisteredTopic
	}
	return c.Subscriber.Subscribe(ctx, topic, group, c.handleRegistered)
}

func (c RegistrationConsumer) handleRegistered(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}

	payloadHash := hashPayload(event.Data)
	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, payloadHash, now.Add(c.dedupTTL()))
	if err != nil {
		logger.Error("registration event dedupe failed",
			"event", "rewards_registration_dedupe_failed",
			"module", "player-engagement/rewards-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}
	if alreadyProcessed {
		logger.Debug("registration event already processed",
			"event", "rewards_registration_event_replayed",
			"module", "player-engagement/rewards-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}

	var payload userRegisteredPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode registration event payload: %w", err)
	}
	if payload.UserID == "" {
		return fmt.Errorf("registration event missing user_id")
	}

	profile, err := entities.NewProfile(payload.UserID, now)
	if err != nil {
		return fmt.Errorf("build registration profile: %w", err)
	}
	if err := c.Profiles.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, domainerrors.ErrProfileExists) {
			logger.Debug("profile already seeded",
				"event", "rewards_registration_profile_exists",
				"module", "player-engagement/rewards-service",
				"layer", "worker",
				"event_id", event.EventID,
				"user_id", payload.UserID,
			)
			return nil
		}
		logger.Error("profile seed failed",
			"event", "rewards_registration_seed_failed",
			"module", "player-engagement/rewards-service",
			"layer", "worker",
			"event_id", event.EventID,
			"user_id", payload.UserID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("profile seeded from registration",
		"event", "rewards_registration_profile_seeded",
		"module", "player-engagement/rewards-service",
		"layer", "worker",
		"event_id", event.EventID,
		"user_id", payload.UserID,
	)
	return nil
}

func (c RegistrationConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
