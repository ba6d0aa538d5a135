package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/dto"
	"hotelops/internal/app/metrics"
	"hotelops/internal/app/policies"
	"hotelops/internal/domain/hotels"
)

const archiveSnapshotKey = "dashboard.archive_snapshot"

var ErrArchiveDisabled = errors.New("dashboard: snapshot archive is not configured")

// ArchiveSnapshotCommand stores the hotel's current metrics as a JSON document.
type ArchiveSnapshotCommand struct {
	HotelID string
}

func (c ArchiveSnapshotCommand) Key() string { return archiveSnapshotKey }

func (c ArchiveSnapshotCommand) Validate() error {
	if strings.TrimSpace(c.HotelID) == "" {
		return metrics.ErrHotelIDRequired
	}
	return nil
}

type ArchiveSnapshotHandler struct {
	Logger   *slog.Logger
	Metrics  MetricsProvider
	Archiver policies.SnapshotArchiver
	Now      func() time.Time
}

func (h *ArchiveSnapshotHandler) Handle(ctx context.Context, cmd ArchiveSnapshotCommand) (dto.SnapshotReceipt, error) {
	var zero dto.SnapshotReceipt
	if h.Archiver == nil {
		return zero, ErrArchiveDisabled
	}
	hotelID := strings.TrimSpace(cmd.HotelID)
	result, err := h.Metrics.GetDashboardMetrics(ctx, hotels.HotelID(hotelID))
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(dto.MapDashboardMetrics(result))
	if err != nil {
		return zero, fmt.Errorf("dashboard: encode snapshot: %w", err)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	created := now().UTC()
	key := snapshotKey(hotelID, created)

	url, err := h.Archiver.Upload(ctx, key, bytes.NewReader(payload), "application/json")
	if err != nil {
		return zero, fmt.Errorf("dashboard: upload snapshot: %w", err)
	}
	if h.Logger != nil {
		h.Logger.Info("dashboard snapshot archived", "hotel_id", hotelID, "key", key)
	}
	return dto.SnapshotReceipt{HotelID: hotelID, Key: key, URL: url, CreatedAt: created}, nil
}

func snapshotKey(hotelID string, at time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s.json", hotelID, at.Format("20060102T150405Z"))
}

var _ commands.Handler[ArchiveSnapshotCommand, dto.SnapshotReceipt] = (*ArchiveSnapshotHandler)(nil)
