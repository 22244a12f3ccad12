package publisher

import (
	"context"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/repository"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const batchSize = 100

// MessageWriter is the part of *kafka.Writer the poller uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxPoller publishes outbox events to kafka and marks them published. Delivery is
// at least once: an event whose mark fails is sent again on the next tick.
type OutboxPoller struct {
	eventTick time.Duration
	repo      repository.OutboxRepository
	writer    MessageWriter
	log       zerolog.Logger
}

func NewKafkaWriter(cfg config.Kafka) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func NewOutboxPoller(repo repository.OutboxRepository, writer MessageWriter, tick time.Duration, log zerolog.Logger) *OutboxPoller {
	if tick <= 0 {
		tick = 2 * time.Second
	}
	return &OutboxPoller{
		eventTick: tick,
		repo:      repo,
		writer:    writer,
		log:       log.With().Str("component", "outbox_poller").Logger(),
	}
}

// Run blocks until ctx is cancelled, then closes the writer.
func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	defer eventTicker.Stop()
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.log.Error().Err(err).Msg("close kafka writer")
		}
	}()

	for {
		select {
		case <-eventTicker.C:
			p.ProcessUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ProcessUnpublishedEvents publishes one batch and returns how many events were marked.
func (p *OutboxPoller) ProcessUnpublishedEvents(ctx context.Context) int {
	events, err := p.repo.FindUnpublished(ctx, batchSize)
	if err != nil {
		p.log.Error().Err(err).Msg("fetch unpublished events")
		return 0
	}

	published := make([]string, 0, len(events))
	for _, event := range events {
		msg := kafka.Message{
			Key:   []byte(event.AggregateID),
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
				{Key: "event_id", Value: []byte(event.ID)},
			},
		}

		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.log.Error().Err(err).Str("event_id", event.ID).Msg("publish event")
			continue
		}
		published = append(published, event.ID)
	}

	if err := p.repo.MarkPublished(ctx, published); err != nil {
		p.log.Error().Err(err).Int("count", len(published)).Msg("mark events published")
		return 0
	}

	if len(published) > 0 {
		p.log.Debug().Int("count", len(published)).Msg("published outbox events")
	}
	return len(published)
}
