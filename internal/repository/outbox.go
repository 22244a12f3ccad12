package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutboxRepository interface {
	Create(ctx context.Context, tx *gorm.DB, aggregateID, eventType string, payload any) error
	FindUnpublished(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkPublished(ctx context.Context, eventIDs []string) error
}

type outboxRepoImpl struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepoImpl{db: db}
}

func (r *outboxRepoImpl) Create(ctx context.Context, tx *gorm.DB, aggregateID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return tx.WithContext(ctx).Create(&model.OutboxEvent{
		ID:          uuid.NewString(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Payload:     body,
	}).Error
}

// FindUnpublished returns the oldest unpublished events first.
func (r *outboxRepoImpl) FindUnpublished(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	var events []*model.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *outboxRepoImpl) MarkPublished(ctx context.Context, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id IN ?", eventIDs).
		Update("published_at", time.Now()).Error
}
