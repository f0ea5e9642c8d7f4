package ports

import (
	"context"
	"time"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	contractsv1 "astrade/contracts/gen/events/v1"
)

// ProfileStore owns persistence of the versioned profile aggregate. All
// writes besides the initial seed go through CompareAndSwapProfile, which
// must atomically bump the version, upsert the aggregate's claim history and
// collectibles, and enqueue the supplied outbox events.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (entities.Profile, error)
	CreateProfile(ctx context.Context, profile entities.Profile) error
	CompareAndSwapProfile(
		ctx context.Context,
		userID string,
		expectedVersion int64,
		profile entities.Profile,
		events []EngagementEvent,
	) error
}

// RewardConfigSource supplies a replacement seven-day reward table. Returning
// an empty slice means no configuration is available and the caller falls
// back to the built-in calendar.
type RewardConfigSource interface {
	LoadCalendar(ctx context.Context) ([]entities.RewardEntry, error)
}

// EngagementEvent is the flat event shape handed to the store; adapters wrap
// it into the canonical envelope when writing outbox rows.
type EngagementEvent struct {
	EventID      string
	EventType    string
	UserID       string
	ActivityKind string
	Day          int
	Amount       int
	StreakCount  int
	Level        int
	OccurredAt   time.Time
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventDedupStore provides idempotent processing guarantees for consumed events.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
