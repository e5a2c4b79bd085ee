package kafkax

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Header names producers set on every event.
const (
	HeaderEventID    = "event_id"
	HeaderEventType  = "event_type"
	HeaderOccurredAt = "occurred_at"
)

// EventMeta identifies an event independent of its payload. Producers that omit
// the headers still get a usable id (the message key) and type (the topic).
type EventMeta struct {
	EventID    string
	EventType  string
	Key        string
	OccurredAt time.Time
}

func ExtractEventMeta(msg kafka.Message) EventMeta {
	meta := EventMeta{
		EventID:    HeaderValue(msg.Headers, HeaderEventID),
		EventType:  HeaderValue(msg.Headers, HeaderEventType),
		Key:        string(msg.Key),
		OccurredAt: msg.Time,
	}
	if meta.EventID == "" {
		meta.EventID = meta.Key
	}
	if meta.EventType == "" {
		meta.EventType = msg.Topic
	}
	if raw := HeaderValue(msg.Headers, HeaderOccurredAt); raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			meta.OccurredAt = t
		}
	}
	return meta
}

// HeaderValue returns the last value for key; kafka allows repeated headers and the latest write wins.
func HeaderValue(headers []kafka.Header, key string) string {
	for i := len(headers) - 1; i >= 0; i-- {
		if headers[i].Key == key {
			return string(headers[i].Value)
		}
	}
	return ""
}

// SplitBrokers parses a comma separated KAFKA_BROKERS value, dropping blanks and duplicates.
func SplitBrokers(raw string) []string {
	var brokers []string
	seen := map[string]bool{}
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		brokers = append(brokers, b)
	}
	return brokers
}
