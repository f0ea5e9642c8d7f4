package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "astrade/contexts/identity-access/account-service/domain/errors"
	"astrade/contexts/identity-access/account-service/ports"
)

const UserRegisteredEventType = "identity.user.registered"

type RegisterUserInput struct {
	Email         string
	Provider      string
	CavosUserID   string
	WalletAddress string
}

type RegisterUserResult struct {
	Account ports.Account
	Created bool
}

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Logger         *slog.Logger
	IdempotencyTTL time.Duration
}

// RegisterUser creates an account and stages the registration event in the
// outbox. Re-registering a known email or cavos id returns the existing
// account instead of failing.
func (s Service) RegisterUser(
	ctx context.Context,
	idempotencyKey string,
	input RegisterUserInput,
) (RegisterUserResult, error) {
	var out RegisterUserResult
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	requestHash := hashStrings("register_user", email, strings.TrimSpace(input.CavosUserID))
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			result, err := s.registerUser(ctx, email, input)
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		},
	)
	return out, err
}

func (s Service) registerUser(
	ctx context.Context,
	email string,
	input RegisterUserInput,
) (RegisterUserResult, error) {
	logger := ResolveLogger(s.Logger)
	cavosUserID := strings.TrimSpace(input.CavosUserID)

	existing, found, err := s.Repo.FindAccountByIdentity(ctx, email, cavosUserID)
	if err != nil {
		return RegisterUserResult{}, err
	}
	if found {
		logger.Warn("account already registered",
			"event", "account_register_existing",
			"module", "identity-access/account-service",
			"layer", "application",
			"user_id", existing.UserID,
		)
		return RegisterUserResult{Account: existing, Created: false}, nil
	}

	now := s.now()
	userID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return RegisterUserResult{}, err
	}
	eventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return RegisterUserResult{}, err
	}

	account := ports.Account{
		UserID:        userID,
		Email:         email,
		Provider:      strings.TrimSpace(input.Provider),
		CavosUserID:   cavosUserID,
		WalletAddress: strings.TrimSpace(input.WalletAddress),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	event := ports.UserRegisteredEvent{
		EventID:    eventID,
		UserID:     userID,
		Email:      email,
		Provider:   account.Provider,
		OccurredAt: now,
	}
	if err := s.Repo.CreateAccountWithOutbox(ctx, account, event); err != nil {
		return RegisterUserResult{}, err
	}

	logger.Info("account registered",
		"event", "account_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", userID,
		"provider", account.Provider,
	)
	return RegisterUserResult{Account: account, Created: true}, nil
}

func (s Service) GetAccount(ctx context.Context, userID string) (ports.Account, error) {
	if strings.TrimSpace(userID) == "" {
		return ports.Account{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetAccount(ctx, strings.TrimSpace(userID))
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Debug("account idempotent operation committed",
		"event", "account_idempotent_operation_committed",
		"module", "identity-access/account-service",
		"layer", "application",
		"idempotency_key", key,
	)
	return decode(payload)
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
