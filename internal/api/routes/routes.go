package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/corvid-labs/moirai/internal/api/handlers"
	"github.com/corvid-labs/moirai/internal/engine"
	"github.com/corvid-labs/moirai/internal/metrics"
	"github.com/corvid-labs/moirai/internal/models"
	"github.com/corvid-labs/moirai/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, eng *engine.Engine) error {
	if err := db.AutoMigrate(
		&models.Rule{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")

	ruleHandler := handlers.NewRuleHandler(eng)
	api.POST("/rules", ruleHandler.Create)
	api.GET("/rules", ruleHandler.List)
	api.GET("/rules/:id", ruleHandler.Get)
	api.PUT("/rules/:id", ruleHandler.Update)
	api.DELETE("/rules/:id", ruleHandler.Delete)

	historyHandler := handlers.NewHistoryHandler(eng)
	api.GET("/decisions", historyHandler.List)

	engineHandler := handlers.NewEngineHandler(eng)
	api.GET("/engine/metrics", engineHandler.Metrics)
	api.GET("/engine/status", engineHandler.Status)
	api.POST("/engine/cycle", engineHandler.RunCycle)
	api.POST("/engine/optimize", engineHandler.Optimize)

	notificationService := services.NewNotificationService(db)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	api.GET("/notifications", notificationHandler.List)
	api.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
	api.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

	return nil
}
