package memory

import (
	"context"
	"testing"
	"time"

	"astrade/contexts/identity-access/account-service/application"
	domainerrors "astrade/contexts/identity-access/account-service/domain/errors"
	"astrade/contexts/identity-access/account-service/ports"
)

func TestCreateAccountWithOutboxRejectsDuplicates(t *testing.T) {
	store := NewStore(nil)
	now := time.Now().UTC()
	account := ports.Account{
		UserID:      "user_acc_1",
		Email:       "dup@astrade.app",
		CavosUserID: "cavos_acc_1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	event := ports.UserRegisteredEvent{
		EventID:    "evt_acc_1",
		UserID:     "user_acc_1",
		Email:      "dup@astrade.app",
		OccurredAt: now,
	}
	if err := store.CreateAccountWithOutbox(context.Background(), account, event); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sameEmail := account
	sameEmail.UserID = "user_acc_2"
	sameEmail.CavosUserID = ""
	if err := store.CreateAccountWithOutbox(context.Background(), sameEmail, event); err != domainerrors.ErrAccountExists {
		t.Fatalf("expected account exists for duplicate email, got %v", err)
	}

	sameCavos := account
	sameCavos.UserID = "user_acc_3"
	sameCavos.Email = "fresh@astrade.app"
	if err := store.CreateAccountWithOutbox(context.Background(), sameCavos, event); err != domainerrors.ErrAccountExists {
		t.Fatalf("expected account exists for duplicate cavos id, got %v", err)
	}
}

func TestFindAccountByIdentity(t *testing.T) {
	store := NewStore(nil)
	now := time.Now().UTC()
	if err := store.CreateAccountWithOutbox(context.Background(), ports.Account{
		UserID:      "user_acc_4",
		Email:       "find@astrade.app",
		CavosUserID: "cavos_acc_4",
		CreatedAt:   now,
		UpdatedAt:   now,
	}, ports.UserRegisteredEvent{
		EventID:    "evt_acc_4",
		UserID:     "user_acc_4",
		OccurredAt: now,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	byEmail, found, err := store.FindAccountByIdentity(context.Background(), "find@astrade.app", "")
	if err != nil || !found {
		t.Fatalf("expected match by email, got found=%v err=%v", found, err)
	}
	if byEmail.UserID != "user_acc_4" {
		t.Fatalf("unexpected account %+v", byEmail)
	}

	byCavos, found, err := store.FindAccountByIdentity(context.Background(), "", "cavos_acc_4")
	if err != nil || !found {
		t.Fatalf("expected match by cavos id, got found=%v err=%v", found, err)
	}
	if byCavos.UserID != "user_acc_4" {
		t.Fatalf("unexpected account %+v", byCavos)
	}

	if _, found, err := store.FindAccountByIdentity(context.Background(), "none@astrade.app", "cavos_none"); err != nil || found {
		t.Fatalf("expected no match, got found=%v err=%v", found, err)
	}
}

func TestOutboxEnvelopeShape(t *testing.T) {
	store := NewStore(nil)
	now := time.Now().UTC()
	if err := store.CreateAccountWithOutbox(context.Background(), ports.Account{
		UserID:    "user_acc_5",
		Email:     "envelope@astrade.app",
		CreatedAt: now,
		UpdatedAt: now,
	}, ports.UserRegisteredEvent{
		EventID:    "evt_acc_5",
		UserID:     "user_acc_5",
		Email:      "envelope@astrade.app",
		OccurredAt: now,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending message, got %d", len(pending))
	}
	if pending[0].EventType != application.UserRegisteredEventType {
		t.Fatalf("unexpected event type %s", pending[0].EventType)
	}

	if err := store.MarkOutboxSent(context.Background(), "evt_acc_5", now); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	drained, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list after mark failed: %v", err)
	}
	if len(drained) != 0 {
		t.Fatalf("expected drained outbox, got %d", len(drained))
	}

	if err := store.MarkOutboxSent(context.Background(), "missing", now); err != domainerrors.ErrRepositoryInvariant {
		t.Fatalf("expected repository invariant error, got %v", err)
	}
}
