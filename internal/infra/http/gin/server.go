package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"hotelops/internal/infra/config"
	"hotelops/internal/infra/obs"
)

type DashboardHTTP interface {
	Metrics(c *gin.Context)
	ClearHotelCache(c *gin.Context)
	ClearAllCache(c *gin.Context)
	ArchiveSnapshot(c *gin.Context)
}

type PricingHTTP interface {
	Quote(c *gin.Context)
	Warnings(c *gin.Context)
}

type Handlers struct {
	Dashboard DashboardHTTP
	Pricing   PricingHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", obs.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", obs.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Dashboard != nil {
		api.GET("/hotels/:hotelId/dashboard/metrics", h.Dashboard.Metrics)
		api.DELETE("/hotels/:hotelId/dashboard/cache", h.Dashboard.ClearHotelCache)
		api.POST("/hotels/:hotelId/dashboard/snapshots", h.Dashboard.ArchiveSnapshot)
		api.DELETE("/dashboard/cache", h.Dashboard.ClearAllCache)
	}
	if h.Pricing != nil {
		api.POST("/hotels/:hotelId/room-types/:roomTypeId/quote", h.Pricing.Quote)
		api.GET("/hotels/:hotelId/room-types/pricing-warnings", h.Pricing.Warnings)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
