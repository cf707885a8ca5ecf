// Package event publishes domain events to NATS, or to the log when no broker is configured.
package event

import (
	"context"

	"github.com/localisation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogPublisher writes events to the logger
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher that only logs
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("events")}
}

// Publish logs each event at info level
func (p *LogPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.logger.Info("domain event",
			zap.String("event_id", e.EventID().String()),
			zap.String("event_type", e.EventType()),
			zap.String("aggregate_type", e.AggregateType()),
			zap.String("aggregate_id", e.AggregateID()),
			zap.Time("occurred_at", e.OccurredAt()),
		)
	}
	return nil
}

var _ shared.EventPublisher = (*LogPublisher)(nil)
