package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"

	"hotelops/internal/app/metrics"
	"hotelops/internal/domain/hotels"
)

// Invalidator drops cached dashboard metrics.
type Invalidator interface {
	ClearCache(ctx context.Context, hotelID hotels.HotelID) error
	ClearAllCache(ctx context.Context) error
}

// InvalidationHandler clears a hotel's cached metrics whenever an event about
// that hotel arrives. It accepts CloudEvents envelopes and bare JSON payloads.
type InvalidationHandler struct {
	Metrics Invalidator
	// Source is this instance's own event source; its events are skipped.
	Source string
	Logger *slog.Logger
}

type hotelRef struct {
	HotelID      string `json:"hotel_id"`
	HotelIDCamel string `json:"hotelId"`
}

func (r hotelRef) id() string {
	if r.HotelID != "" {
		return strings.TrimSpace(r.HotelID)
	}
	return strings.TrimSpace(r.HotelIDCamel)
}

func (h *InvalidationHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	if h.Source != "" && headerValue(msg, headerSource) == h.Source {
		return nil
	}
	name, ref, err := decodeEvent(msg.Value)
	if err != nil {
		// poison messages are acknowledged so they do not stall the partition
		h.log().Warn("undecodable event skipped", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}

	hotelID := ref.id()
	switch {
	case hotelID != "":
		if err := h.Metrics.ClearCache(ctx, hotels.HotelID(hotelID)); err != nil {
			return fmt.Errorf("invalidate %s after %s: %w", hotelID, name, err)
		}
		h.log().Debug("metrics invalidated by event", "hotel_id", hotelID, "event", name)
	case name == metrics.EventCacheCleared:
		if err := h.Metrics.ClearAllCache(ctx); err != nil {
			return fmt.Errorf("invalidate all after %s: %w", name, err)
		}
		h.log().Info("all metrics invalidated by event", "event", name)
	default:
		h.log().Debug("event without hotel id ignored", "topic", msg.Topic, "event", name)
	}
	return nil
}

func (h *InvalidationHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// decodeEvent returns the event name (empty for bare payloads) and the hotel reference.
func decodeEvent(value []byte) (string, hotelRef, error) {
	var env Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return "", hotelRef{}, err
	}
	var ref hotelRef
	if env.SpecVersion != "" && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &ref); err != nil {
			return "", hotelRef{}, err
		}
		return env.Name(), ref, nil
	}
	if err := json.Unmarshal(value, &ref); err != nil {
		return "", hotelRef{}, err
	}
	return env.Name(), ref, nil
}

func headerValue(msg *sarama.ConsumerMessage, key string) string {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

var _ MessageHandler = (*InvalidationHandler)(nil)
