package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/dto"
	dashboardapp "hotelops/internal/app/handlers/dashboard"
	"hotelops/internal/app/queries"
)

type DashboardHandler struct {
	Logger   *slog.Logger
	Queries  queries.Bus
	Commands commands.Bus
}

func (h DashboardHandler) Metrics(c *gin.Context) {
	query := dashboardapp.GetMetricsQuery{HotelID: c.Param("hotelId")}
	result, err := queries.Ask[dashboardapp.GetMetricsQuery, dto.DashboardMetrics](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h DashboardHandler) ClearHotelCache(c *gin.Context) {
	hotelID := c.Param("hotelId")
	if hotelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hotel id is required"})
		return
	}
	h.clear(c, dashboardapp.ClearCacheCommand{HotelID: hotelID, Broadcast: true})
}

func (h DashboardHandler) ClearAllCache(c *gin.Context) {
	h.clear(c, dashboardapp.ClearCacheCommand{Broadcast: true})
}

func (h DashboardHandler) clear(c *gin.Context, cmd dashboardapp.ClearCacheCommand) {
	if _, err := commands.Dispatch[dashboardapp.ClearCacheCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h DashboardHandler) ArchiveSnapshot(c *gin.Context) {
	cmd := dashboardapp.ArchiveSnapshotCommand{HotelID: c.Param("hotelId")}
	receipt, err := commands.Dispatch[dashboardapp.ArchiveSnapshotCommand, dto.SnapshotReceipt](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

var _ DashboardHTTP = DashboardHandler{}
