package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corvid-labs/moirai/internal/engine"
	"github.com/corvid-labs/moirai/internal/version"
)

type EngineHandler struct {
	engine *engine.Engine
}

func NewEngineHandler(e *engine.Engine) *EngineHandler {
	return &EngineHandler{engine: e}
}

// Metrics returns the aggregate decision metrics.
func (h *EngineHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Summarize())
}

// Status returns a short description of the engine.
func (h *EngineHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    version.Name,
		"version": version.Full(),
		"status":  "active",
		"metrics": h.engine.Summarize(),
		"capabilities": []string{
			"Automated decision making",
			"Business rule management",
			"Trend analysis",
			"Performance optimization",
			"Impact assessment",
		},
	})
}

// RunCycle forces an immediate decision cycle.
func (h *EngineHandler) RunCycle(c *gin.Context) {
	if err := h.engine.RunCycle(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "decision cycle completed"})
}

// Optimize forces an immediate optimization pass.
func (h *EngineHandler) Optimize(c *gin.Context) {
	if err := h.engine.Optimize(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "optimization pass completed"})
}
