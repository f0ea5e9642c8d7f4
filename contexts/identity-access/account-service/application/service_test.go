package application_test

import (
	"context"
	"testing"
	"time"

	"astrade/contexts/identity-access/account-service/adapters/memory"
	application "astrade/contexts/identity-access/account-service/application"
	domainerrors "astrade/contexts/identity-access/account-service/domain/errors"
)

func newTestService(store *memory.Store) application.Service {
	return application.Service{
		Repo:           store,
		Idempotency:    store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
	}
}

func TestRegisterUserCreatesAccountAndEvent(t *testing.T) {
	store := memory.NewStore(nil)
	service := newTestService(store)

	result, err := service.RegisterUser(context.Background(), "idem-app-1", application.RegisterUserInput{
		Email:       "  Voyager@AsTrade.app ",
		Provider:    "apple",
		CavosUserID: "cavos-app-1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !result.Created {
		t.Fatalf("expected a created account")
	}
	if result.Account.Email != "voyager@astrade.app" {
		t.Fatalf("expected trimmed lowercase email, got %q", result.Account.Email)
	}
	if result.Account.UserID == "" {
		t.Fatalf("expected generated user id")
	}

	events := store.OutboxEvents()
	if len(events) != 1 {
		t.Fatalf("expected one staged registration event, got %d", len(events))
	}
	if events[0].EventType != application.UserRegisteredEventType {
		t.Fatalf("unexpected event type %s", events[0].EventType)
	}
}

func TestRegisterUserFindsExistingByCavosID(t *testing.T) {
	store := memory.NewStore(nil)
	service := newTestService(store)

	first, err := service.RegisterUser(context.Background(), "idem-app-2", application.RegisterUserInput{
		Email:       "cavos@astrade.app",
		CavosUserID: "cavos-app-2",
	})
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	second, err := service.RegisterUser(context.Background(), "idem-app-3", application.RegisterUserInput{
		Email:       "other@astrade.app",
		CavosUserID: "cavos-app-2",
	})
	if err != nil {
		t.Fatalf("second register failed: %v", err)
	}
	if second.Created {
		t.Fatalf("known cavos id must not create a new account")
	}
	if second.Account.UserID != first.Account.UserID {
		t.Fatalf("expected existing account, got %s vs %s", second.Account.UserID, first.Account.UserID)
	}
}

func TestRegisterUserValidation(t *testing.T) {
	store := memory.NewStore(nil)
	service := newTestService(store)

	if _, err := service.RegisterUser(context.Background(), "idem-app-4", application.RegisterUserInput{}); err != domainerrors.ErrInvalidRequest {
		t.Fatalf("expected invalid request for missing email, got %v", err)
	}
	if _, err := service.RegisterUser(context.Background(), "   ", application.RegisterUserInput{Email: "a@b.c"}); err != domainerrors.ErrIdempotencyKeyRequired {
		t.Fatalf("expected idempotency key required, got %v", err)
	}
}

func TestGetAccountValidation(t *testing.T) {
	store := memory.NewStore(nil)
	service := newTestService(store)

	if _, err := service.GetAccount(context.Background(), " "); err != domainerrors.ErrInvalidRequest {
		t.Fatalf("expected invalid request for blank id, got %v", err)
	}
	if _, err := service.GetAccount(context.Background(), "user-none"); err != domainerrors.ErrAccountNotFound {
		t.Fatalf("expected account not found, got %v", err)
	}
}
