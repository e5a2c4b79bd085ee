package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/md-rashed-zaman/interviewbook/libs/kafkax"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Handler func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	reader  *kafka.Reader
	logger  *slog.Logger
	handler Handler
}

type Config struct {
	Brokers string
	GroupID string
	Topic   string
}

func New(logger *slog.Logger, cfg Config, handler Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkax.SplitBrokers(cfg.Brokers),
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, logger: logger, handler: handler}
}

func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("kafka read error", "err", err)
			time.Sleep(1 * time.Second)
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	ctxMsg := kafkax.ExtractTraceContext(ctx, msg)
	ctxSpan, span := otel.Tracer("kafka").Start(ctxMsg, "kafka.consume",
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
		),
	)
	defer span.End()

	meta := kafkax.ExtractEventMeta(msg)
	span.SetAttributes(attribute.String("messaging.message.id", meta.EventID))
	if !meta.OccurredAt.IsZero() {
		span.SetAttributes(attribute.Int64("event.lag_ms", time.Since(meta.OccurredAt).Milliseconds()))
	}
	if err := c.handler(ctxSpan, msg); err != nil {
		c.logger.Error("handler error", "err", err, "event_id", meta.EventID, "event_type", meta.EventType)
		span.RecordError(err)
	}
}

// Invalidator drops any cached availability for an expert.
type Invalidator interface {
	Invalidate(ctx context.Context, expertID string) error
}

type availabilityUpdated struct {
	ExpertID string `json:"expert_id"`
}

// InvalidateOnUpdate handles expert.availability.updated events. The expert id comes from the
// payload, or from the message key when the payload does not carry one.
func InvalidateOnUpdate(inv Invalidator, logger *slog.Logger) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload availabilityUpdated
		if len(msg.Value) > 0 {
			if err := json.Unmarshal(msg.Value, &payload); err != nil {
				logger.Error("invalid availability update", "err", err)
				return nil
			}
		}
		expertID := strings.TrimSpace(payload.ExpertID)
		if expertID == "" {
			expertID = strings.TrimSpace(string(msg.Key))
		}
		if expertID == "" {
			logger.Error("availability update without expert_id")
			return nil
		}
		if err := inv.Invalidate(ctx, expertID); err != nil {
			return err
		}
		logger.Info("profile cache invalidated", "expert_id", expertID)
		return nil
	}
}
