package kafka

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	headerContentType = "content-type"
	headerSource      = "ce_source"
	cloudEventsJSON   = "application/cloudevents+json"
)

// Envelope is the CloudEvents 1.0 structured-mode message body.
type Envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype,omitempty"`
	Data            json.RawMessage `json:"data"`
}

// Name strips the version suffix from Type.
func (e Envelope) Name() string {
	return strings.TrimSuffix(e.Type, ".v1")
}

func newEnvelope(source, name string, data any, now time.Time) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Type:            name + ".v1",
		Source:          source,
		Time:            now.UTC(),
		DataContentType: "application/json",
		Data:            raw,
	}, nil
}

// TopicFor maps "reservations.updated" to "<prefix>reservations.events.v1".
func TopicFor(prefix, name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return prefix + base + ".events.v1"
}

// InvalidationTopics lists the topics whose events can change dashboard metrics.
func InvalidationTopics(prefix string) []string {
	return []string{
		prefix + "reservations.events.v1",
		prefix + "service_orders.events.v1",
		prefix + "rooms.events.v1",
		prefix + "metrics.events.v1",
	}
}
