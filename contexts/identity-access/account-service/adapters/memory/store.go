package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	application "astrade/contexts/identity-access/account-service/application"
	domainerrors "astrade/contexts/identity-access/account-service/domain/errors"
	"astrade/contexts/identity-access/account-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the account ports for local
// runtime and tests.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]ports.Account
	byEmail     map[string]string
	byCavosID   map[string]string
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	logger      *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		accounts:    make(map[string]ports.Account),
		byEmail:     make(map[string]string),
		byCavosID:   make(map[string]string),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]ports.OutboxMessage),
		outboxOrder: make([]string, 0),
		outboxSent:  make(map[string]time.Time),
		logger:      application.ResolveLogger(logger),
	}
}

func (s *Store) CreateAccountWithOutbox(_ context.Context, account ports.Account, event ports.UserRegisteredEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.UserID]; ok {
		return domainerrors.ErrAccountExists
	}
	if _, ok := s.byEmail[account.Email]; ok {
		return domainerrors.ErrAccountExists
	}
	if account.CavosUserID != "" {
		if _, ok := s.byCavosID[account.CavosUserID]; ok {
			return domainerrors.ErrAccountExists
		}
	}

	payload, err := marshalRegisteredEnvelope(event)
	if err != nil {
		return err
	}
	s.accounts[account.UserID] = account
	s.byEmail[account.Email] = account.UserID
	if account.CavosUserID != "" {
		s.byCavosID[account.CavosUserID] = account.UserID
	}
	s.outbox[event.EventID] = ports.OutboxMessage{
		OutboxID:     event.EventID,
		EventType:    application.UserRegisteredEventType,
		PartitionKey: event.UserID,
		Payload:      payload,
		CreatedAt:    event.OccurredAt,
	}
	s.outboxOrder = append(s.outboxOrder, event.EventID)

	s.logger.Info("account and outbox persisted in memory store",
		"event", "memory_create_account_with_outbox",
		"module", "identity-access/account-service",
		"layer", "adapter",
		"user_id", account.UserID,
		"outbox_event_id", event.EventID,
	)
	return nil
}

func (s *Store) GetAccount(_ context.Context, userID string) (ports.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[userID]
	if !ok {
		return ports.Account{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) FindAccountByIdentity(_ context.Context, email string, cavosUserID string) (ports.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if email != "" {
		if userID, ok := s.byEmail[email]; ok {
			account, exists := s.accounts[userID]
			if !exists {
				return ports.Account{}, false, domainerrors.ErrRepositoryInvariant
			}
			return account, true, nil
		}
	}
	if cavosUserID != "" {
		if userID, ok := s.byCavosID[cavosUserID]; ok {
			account, exists := s.accounts[userID]
			if !exists {
				return ports.Account{}, false, domainerrors.ErrRepositoryInvariant
			}
			return account, true, nil
		}
	}
	return ports.Account{}, false, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.After(record.ExpiresAt) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.idempotency[record.Key]; ok {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		if _, sent := s.outboxSent[id]; sent {
			continue
		}
		if msg, ok := s.outbox[id]; ok {
			messages = append(messages, msg)
		}
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return domainerrors.ErrRepositoryInvariant
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// OutboxEvents exposes every appended outbox message for assertions.
func (s *Store) OutboxEvents() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		if evt, ok := s.outbox[id]; ok {
			events = append(events, evt)
		}
	}
	return events
}

func marshalRegisteredEnvelope(event ports.UserRegisteredEvent) ([]byte, error) {
	data, err := json.Marshal(map[string]string{
		"user_id":  event.UserID,
		"email":    event.Email,
		"provider": event.Provider,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(ports.EventEnvelope{
		EventID:          event.EventID,
		EventType:        application.UserRegisteredEventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    "account-service",
		TraceID:          event.EventID,
		SchemaVersion:    1,
		PartitionKeyPath: "user_id",
		PartitionKey:     event.UserID,
		Data:             data,
	})
}
