package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whatnewads/safeshift-sub006/internal/app"
	"github.com/whatnewads/safeshift-sub006/internal/handlers"
	"github.com/whatnewads/safeshift-sub006/internal/middleware"
	"github.com/whatnewads/safeshift-sub006/internal/notifications"
)

// NewRouter builds the Gin engine, wires middleware, and registers the
// notification routes.
func NewRouter(manager *notifications.Manager, cfg *app.Config) (*gin.Engine, error) {
	if manager == nil {
		return nil, fmt.Errorf("notification manager must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	r.GET("/health", handlers.Health())

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	handler, err := handlers.NewNotificationHandler(manager, cfg.Notifications.SeedSampleData)
	if err != nil {
		return nil, err
	}

	api := r.Group("/api")
	api.Use(middleware.Identity())

	group := api.Group("/notifications")
	{
		group.GET("", handler.List)
		group.GET("/unread", handler.Unread)
		group.GET("/type/:type", handler.ListByType)
		group.POST("", handler.Create)
		group.POST("/broadcast", handler.Broadcast)
		group.POST("/read", handler.MarkRead)
		group.POST("/read-all", handler.MarkAllRead)
		group.POST("/seed", handler.Seed)
	}

	return r, nil
}
