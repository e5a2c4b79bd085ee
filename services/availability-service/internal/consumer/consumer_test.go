package consumer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
)

type recordingInvalidator struct {
	ids []string
	err error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, expertID string) error {
	r.ids = append(r.ids, expertID)
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInvalidateOnUpdate(t *testing.T) {
	cases := []struct {
		name string
		msg  kafka.Message
		want []string
	}{
		{"payload", kafka.Message{Value: []byte(`{"expert_id":"e1"}`)}, []string{"e1"}},
		{"key fallback", kafka.Message{Key: []byte("e2"), Value: []byte(`{}`)}, []string{"e2"}},
		{"empty body", kafka.Message{Key: []byte("e3")}, []string{"e3"}},
		{"no id", kafka.Message{Value: []byte(`{"expert_id":"  "}`)}, nil},
		{"bad json", kafka.Message{Key: []byte("e4"), Value: []byte(`{`)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := &recordingInvalidator{}
			if err := InvalidateOnUpdate(inv, discardLogger())(context.Background(), tc.msg); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(inv.ids) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, inv.ids)
			}
			for i := range tc.want {
				if inv.ids[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, inv.ids)
				}
			}
		})
	}
}

func TestInvalidateOnUpdate_PropagatesError(t *testing.T) {
	inv := &recordingInvalidator{err: errors.New("redis down")}
	err := InvalidateOnUpdate(inv, discardLogger())(context.Background(), kafka.Message{Value: []byte(`{"expert_id":"e1"}`)})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestConsumerHandle_LogsHandlerError(t *testing.T) {
	var buf bytes.Buffer
	c := &Consumer{
		logger: slog.New(slog.NewTextHandler(&buf, nil)),
		handler: func(context.Context, kafka.Message) error {
			return errors.New("boom")
		},
	}
	c.handle(context.Background(), kafka.Message{
		Topic:   "expert.availability.updated.v1",
		Headers: []kafka.Header{{Key: "event_id", Value: []byte("evt-1")}},
	})
	if !strings.Contains(buf.String(), "evt-1") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected handler error logged, got %q", buf.String())
	}
}
