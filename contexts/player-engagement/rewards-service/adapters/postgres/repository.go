package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"astrade/contexts/player-engagement/rewards-service/domain/entities"
	domainerrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	"astrade/contexts/player-engagement/rewards-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetProfile(ctx context.Context, userID string) (entities.Profile, error) {
	var row playerProfileModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrProfileNotFound
		}
		return entities.Profile{}, err
	}
	return row.toEntity()
}

func (r *Repository) CreateProfile(ctx context.Context, profile entities.Profile) error {
	row, err := playerProfileModelFromEntity(profile)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrProfileExists
		}
		return err
	}
	return nil
}

// CompareAndSwapProfile replaces the profile row only when the stored
// version still matches expectedVersion, appending outbox rows in the same
// transaction.
func (r *Repository) CompareAndSwapProfile(
	ctx context.Context,
	userID string,
	expectedVersion int64,
	profile entities.Profile,
	events []ports.EngagementEvent,
) error {
	row, err := playerProfileModelFromEntity(profile)
	if err != nil {
		return err
	}
	outboxRows := make([]outboxModel, 0, len(events))
	for _, event := range events {
		envelope, err := buildEventEnvelope(event)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(envelope)
		if err != nil {
			return err
		}
		outboxRows = append(outboxRows, outboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.UserID,
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    event.OccurredAt.UTC(),
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&playerProfileModel{}).
			Where("user_id = ? AND version = ?", userID, expectedVersion).
			Updates(map[string]any{
				"level":         row.Level,
				"experience":    row.Experience,
				"total_trades":  row.TotalTrades,
				"total_pnl":     row.TotalPnL,
				"streaks":       row.Streaks,
				"achievements":  row.Achievements,
				"claim_history": row.ClaimHistory,
				"collectibles":  row.Collectibles,
				"version":       row.Version,
				"updated_at":    row.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&playerProfileModel{}).
				Where("user_id = ?", userID).
				Count(&count).
				Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrProfileNotFound
			}
			return domainerrors.ErrVersionConflict
		}

		for _, outboxRow := range outboxRows {
			if err := tx.Create(&outboxRow).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrRepositoryInvariantBroke
				}
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", key).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return row.toPort(), true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModelFromPort(record)
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", record.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != record.RequestHash {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func (r *Repository) ReserveEvent(
	ctx context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	row := eventDedupModel{
		EventID:     eventID,
		PayloadHash: payloadHash,
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return false, createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return false, nil
	}

	var existing eventDedupModel
	if err := r.db.WithContext(ctx).
		Select("payload_hash").
		Where("event_id = ?", eventID).
		First(&existing).
		Error; err != nil {
		return false, err
	}
	if existing.PayloadHash != payloadHash {
		return false, domainerrors.ErrIdempotencyKeyConflict
	}
	return true, nil
}

type playerProfileModel struct {
	UserID       string    `gorm:"column:user_id;primaryKey"`
	Level        int       `gorm:"column:level"`
	Experience   int       `gorm:"column:experience"`
	TotalTrades  int       `gorm:"column:total_trades"`
	TotalPnL     float64   `gorm:"column:total_pnl"`
	Streaks      []byte    `gorm:"column:streaks"`
	Achievements []byte    `gorm:"column:achievements"`
	ClaimHistory []byte    `gorm:"column:claim_history"`
	Collectibles []byte    `gorm:"column:collectibles"`
	Version      int64     `gorm:"column:version"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (playerProfileModel) TableName() string {
	return "player_profiles"
}

func playerProfileModelFromEntity(profile entities.Profile) (playerProfileModel, error) {
	streaks, err := json.Marshal(profile.Streaks)
	if err != nil {
		return playerProfileModel{}, err
	}
	achievements, err := json.Marshal(profile.Achievements)
	if err != nil {
		return playerProfileModel{}, err
	}
	claims, err := json.Marshal(profile.ClaimHistory)
	if err != nil {
		return playerProfileModel{}, err
	}
	collectibles, err := json.Marshal(profile.Collectibles)
	if err != nil {
		return playerProfileModel{}, err
	}
	return playerProfileModel{
		UserID:       profile.UserID,
		Level:        profile.Level,
		Experience:   profile.Experience,
		TotalTrades:  profile.TotalTrades,
		TotalPnL:     profile.TotalPnL,
		Streaks:      streaks,
		Achievements: achievements,
		ClaimHistory: claims,
		Collectibles: collectibles,
		Version:      profile.Version,
		CreatedAt:    profile.CreatedAt.UTC(),
		UpdatedAt:    profile.UpdatedAt.UTC(),
	}, nil
}

func (m playerProfileModel) toEntity() (entities.Profile, error) {
	profile := entities.Profile{
		UserID:      m.UserID,
		Level:       m.Level,
		Experience:  m.Experience,
		TotalTrades: m.TotalTrades,
		TotalPnL:    m.TotalPnL,
		Streaks:     make(map[entities.StreakKey]entities.StreakState),
		Version:     m.Version,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if len(m.Streaks) > 0 {
		if err := json.Unmarshal(m.Streaks, &profile.Streaks); err != nil {
			return entities.Profile{}, err
		}
	}
	if len(m.Achievements) > 0 {
		if err := json.Unmarshal(m.Achievements, &profile.Achievements); err != nil {
			return entities.Profile{}, err
		}
	}
	if len(m.ClaimHistory) > 0 {
		if err := json.Unmarshal(m.ClaimHistory, &profile.ClaimHistory); err != nil {
			return entities.Profile{}, err
		}
	}
	if len(m.Collectibles) > 0 {
		if err := json.Unmarshal(m.Collectibles, &profile.Collectibles); err != nil {
			return entities.Profile{}, err
		}
	}
	return profile, nil
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "rewards_idempotency"
}

func idempotencyModelFromPort(record ports.IdempotencyRecord) idempotencyModel {
	return idempotencyModel{
		Key:             record.Key,
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
}

func (m idempotencyModel) toPort() ports.IdempotencyRecord {
	return ports.IdempotencyRecord{
		Key:             m.Key,
		RequestHash:     m.RequestHash,
		ResponsePayload: append([]byte(nil), m.ResponsePayload...),
		ExpiresAt:       m.ExpiresAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "rewards_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "rewards_event_dedup"
}

func buildEventEnvelope(event ports.EngagementEvent) (ports.EventEnvelope, error) {
	data, err := json.Marshal(eventPayload{
		UserID:       event.UserID,
		ActivityKind: event.ActivityKind,
		Day:          event.Day,
		Amount:       event.Amount,
		StreakCount:  event.StreakCount,
		Level:        event.Level,
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt.UTC(),
		SourceService:    "rewards-service",
		TraceID:          event.EventID,
		SchemaVersion:    1,
		PartitionKeyPath: "user_id",
		PartitionKey:     event.UserID,
		Data:             data,
	}, nil
}

type eventPayload struct {
	UserID       string `json:"user_id"`
	ActivityKind string `json:"activity_kind,omitempty"`
	Day          int    `json:"day,omitempty"`
	Amount       int    `json:"amount,omitempty"`
	StreakCount  int    `json:"streak_count,omitempty"`
	Level        int    `json:"level,omitempty"`
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
