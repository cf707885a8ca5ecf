package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/config"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	headerEventType = "Event-Type"
	headerAggregate = "Aggregate-Id"
)

// NATSPublisher publishes JSON-encoded events on {prefix}.{eventType}
type NATSPublisher struct {
	conn    *nats.Conn
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewNATSPublisher connects to the configured server
func NewNATSPublisher(cfg config.EventsConfig, logger *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.Timeout(cfg.Timeout),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return NewNATSPublisherWithConn(conn, cfg.SubjectPrefix, cfg.Timeout, logger), nil
}

// NewNATSPublisherWithConn wraps an existing connection
func NewNATSPublisherWithConn(conn *nats.Conn, prefix string, timeout time.Duration, logger *zap.Logger) *NATSPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NATSPublisher{conn: conn, prefix: prefix, timeout: timeout, logger: logger.Named("events.nats")}
}

// Subject returns the subject an event is published on
func (p *NATSPublisher) Subject(e shared.DomainEvent) string {
	return p.prefix + "." + e.EventType()
}

// Publish sends every event and flushes the connection. All events are attempted
// even when one fails; the errors are joined.
func (p *NATSPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode event %s: %w", e.EventID(), err))
			continue
		}
		msg := nats.NewMsg(p.Subject(e))
		msg.Data = data
		msg.Header.Set(nats.MsgIdHdr, e.EventID().String())
		msg.Header.Set(headerEventType, e.EventType())
		msg.Header.Set(headerAggregate, e.AggregateID())
		if err := p.conn.PublishMsg(msg); err != nil {
			errs = append(errs, fmt.Errorf("publish event %s: %w", e.EventID(), err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	flushCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.conn.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("flush NATS connection: %w", err)
	}
	return nil
}

// Close drains the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

var _ shared.EventPublisher = (*NATSPublisher)(nil)
