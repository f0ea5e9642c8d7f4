package ports

import (
	"context"
	"time"

	contractsv1 "astrade/contracts/gen/events/v1"
)

type Account struct {
	UserID        string
	Email         string
	Provider      string
	CavosUserID   string
	WalletAddress string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserRegisteredEvent struct {
	EventID    string
	UserID     string
	Email      string
	Provider   string
	OccurredAt time.Time
}

type Repository interface {
	CreateAccountWithOutbox(ctx context.Context, account Account, event UserRegisteredEvent) error
	GetAccount(ctx context.Context, userID string) (Account, error)
	FindAccountByIdentity(ctx context.Context, email string, cavosUserID string) (Account, bool, error)
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventEnvelope = contractsv1.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
