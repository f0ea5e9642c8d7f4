package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	"astrade/contexts/player-engagement/rewards-service/ports"
)

func seedProfile(t *testing.T, store *Store, userID string) entities.Profile {
	profile, err := entities.NewProfile(userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	store.SeedProfile(profile)
	return profile
}

func TestCompareAndSwapBumpsVersionAndStagesOutbox(t *testing.T) {
	store := NewStore(nil, nil)
	profile := seedProfile(t, store, "user_mem_1")

	updated := profile.Clone()
	updated.Experience = 50
	updated.Version = profile.Version + 1
	event := ports.EngagementEvent{
		EventID:     "evt_mem_1",
		EventType:   "rewards.claimed",
		UserID:      "user_mem_1",
		Amount:      50,
		StreakCount: 1,
		OccurredAt:  time.Now().UTC(),
	}
	if err := store.CompareAndSwapProfile(context.Background(), "user_mem_1", profile.Version, updated, []ports.EngagementEvent{event}); err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	stored, err := store.GetProfile(context.Background(), "user_mem_1")
	if err != nil {
		t.Fatalf("get after swap failed: %v", err)
	}
	if stored.Version != profile.Version+1 || stored.Experience != 50 {
		t.Fatalf("unexpected stored profile %+v", stored)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one outbox message, got %d", len(pending))
	}
	var envelope ports.EventEnvelope
	if err := json.Unmarshal(pending[0].Payload, &envelope); err != nil {
		t.Fatalf("decode envelope failed: %v", err)
	}
	if envelope.EventType != "rewards.claimed" || envelope.SourceService != "rewards-service" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	if envelope.PartitionKey != "user_mem_1" {
		t.Fatalf("expected user partition key, got %s", envelope.PartitionKey)
	}
}

func TestCompareAndSwapStaleVersionRejected(t *testing.T) {
	store := NewStore(nil, nil)
	profile := seedProfile(t, store, "user_mem_2")

	updated := profile.Clone()
	updated.Version = profile.Version + 1
	if err := store.CompareAndSwapProfile(context.Background(), "user_mem_2", profile.Version, updated, nil); err != nil {
		t.Fatalf("first swap failed: %v", err)
	}

	// Second writer still holds the original version.
	err := store.CompareAndSwapProfile(context.Background(), "user_mem_2", profile.Version, updated, nil)
	if !errors.Is(err, domainerrors.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestCompareAndSwapUnknownUser(t *testing.T) {
	store := NewStore(nil, nil)
	profile, err := entities.NewProfile("user_mem_3", time.Now().UTC())
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}

	err = store.CompareAndSwapProfile(context.Background(), "user_mem_3", 1, profile, nil)
	if !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
}

func TestIdempotencyRecordLifecycle(t *testing.T) {
	store := NewStore(nil, nil)
	now := time.Now().UTC()

	record := ports.IdempotencyRecord{
		Key:             "idem_mem_1",
		RequestHash:     "hash-a",
		ResponsePayload: []byte(`{"ok":true}`),
		ExpiresAt:       now.Add(time.Hour),
	}
	if err := store.PutRecord(context.Background(), record); err != nil {
		t.Fatalf("put record failed: %v", err)
	}

	fetched, found, err := store.GetRecord(context.Background(), "idem_mem_1", now)
	if err != nil || !found {
		t.Fatalf("expected stored record, got found=%v err=%v", found, err)
	}
	if fetched.RequestHash != "hash-a" {
		t.Fatalf("unexpected record %+v", fetched)
	}

	conflicting := record
	conflicting.RequestHash = "hash-b"
	if err := store.PutRecord(context.Background(), conflicting); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected idempotency key conflict, got %v", err)
	}

	// Expired records are evicted on read.
	_, found, err = store.GetRecord(context.Background(), "idem_mem_1", now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("get after expiry failed: %v", err)
	}
	if found {
		t.Fatalf("expected expired record to be evicted")
	}
}

func TestReserveEventDeduplicates(t *testing.T) {
	store := NewStore(nil, nil)
	expires := time.Now().UTC().Add(time.Hour)

	replayed, err := store.ReserveEvent(context.Background(), "evt_dedup_1", "hash-a", expires)
	if err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	if replayed {
		t.Fatalf("first delivery must not be marked replayed")
	}

	replayed, err = store.ReserveEvent(context.Background(), "evt_dedup_1", "hash-a", expires)
	if err != nil {
		t.Fatalf("second reserve failed: %v", err)
	}
	if !replayed {
		t.Fatalf("redelivery must be marked replayed")
	}

	if _, err := store.ReserveEvent(context.Background(), "evt_dedup_1", "hash-b", expires); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected conflict for mismatched payload hash, got %v", err)
	}
}

func TestMarkOutboxSentUnknownMessage(t *testing.T) {
	store := NewStore(nil, nil)

	err := store.MarkOutboxSent(context.Background(), "missing", time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrRepositoryInvariantBroke) {
		t.Fatalf("expected repository invariant error, got %v", err)
	}
}
