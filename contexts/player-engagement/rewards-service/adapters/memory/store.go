package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	application "astrade/contexts/player-engagement/rewards-service/application"
	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	"astrade/contexts/player-engagement/rewards-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the rewards ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu          sync.RWMutex
	profiles    map[string]entities.Profile
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	eventDedup  map[string]string
	logger      *slog.Logger
}

// NewStore seeds profile state and initializes the idempotency, outbox and
// dedup stores.
func NewStore(seedProfiles []entities.Profile, logger *slog.Logger) *Store {
	profiles := make(map[string]entities.Profile, len(seedProfiles))
	for _, profile := range seedProfiles {
		profiles[profile.UserID] = profile.Clone()
	}
	return &Store{
		profiles:    profiles,
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]ports.OutboxMessage),
		outboxOrder: make([]string, 0),
		outboxSent:  make(map[string]time.Time),
		eventDedup:  make(map[string]string),
		logger:      application.ResolveLogger(logger),
	}
}

func (s *Store) SeedProfile(profile entities.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile.Clone()
}

func (s *Store) GetProfile(_ context.Context, userID string) (entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	return profile.Clone(), nil
}

func (s *Store) CreateProfile(_ context.Context, profile entities.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.UserID]; ok {
		return domainerrors.ErrProfileExists
	}
	s.profiles[profile.UserID] = profile.Clone()
	return nil
}

func (s *Store) CompareAndSwapProfile(
	_ context.Context,
	userID string,
	expectedVersion int64,
	profile entities.Profile,
	events []ports.EngagementEvent,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A single mutex critical section approximates transactional semantics:
	// the profile swap and outbox appends succeed or fail together.
	current, ok := s.profiles[userID]
	if !ok {
		return domainerrors.ErrProfileNotFound
	}
	if current.Version != expectedVersion {
		return domainerrors.ErrVersionConflict
	}

	for _, event := range events {
		payload, err := marshalEnvelope(event)
		if err != nil {
			return err
		}
		s.outbox[event.EventID] = ports.OutboxMessage{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.UserID,
			Payload:      payload,
			CreatedAt:    event.OccurredAt,
		}
		s.outboxOrder = append(s.outboxOrder, event.EventID)
	}
	s.profiles[userID] = profile.Clone()

	s.logger.Info("profile swapped in memory store",
		"event", "memory_profile_swapped",
		"module", "player-engagement/rewards-service",
		"layer", "adapter",
		"user_id", userID,
		"version", profile.Version,
		"outbox_count", len(events),
	)
	return nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	// Expired keys are lazily evicted on read.
	if !record.ExpiresAt.IsZero() && now.After(record.ExpiresAt) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.idempotency[record.Key]; ok {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyKeyConflict
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
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.eventDedup[eventID]; ok {
		if existing != payloadHash {
			return false, domainerrors.ErrIdempotencyKeyConflict
		}
		return true, nil
	}
	s.eventDedup[eventID] = payloadHash
	return false, nil
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

type eventPayload struct {
	UserID       string `json:"user_id"`
	ActivityKind string `json:"activity_kind,omitempty"`
	Day          int    `json:"day,omitempty"`
	Amount       int    `json:"amount,omitempty"`
	StreakCount  int    `json:"streak_count,omitempty"`
	Level        int    `json:"level,omitempty"`
}

func marshalEnvelope(event ports.EngagementEvent) ([]byte, error) {
	data, err := json.Marshal(eventPayload{
		UserID:       event.UserID,
		ActivityKind: event.ActivityKind,
		Day:          event.Day,
		Amount:       event.Amount,
		StreakCount:  event.StreakCount,
		Level:        event.Level,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(ports.EventEnvelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    "rewards-service",
		TraceID:          event.EventID,
		SchemaVersion:    1,
		PartitionKeyPath: "user_id",
		PartitionKey:     event.UserID,
		Data:             data,
	})
}
