package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corvid-labs/moirai/internal/engine"
	"github.com/corvid-labs/moirai/internal/models"
)

type HistoryHandler struct {
	engine *engine.Engine
}

func NewHistoryHandler(e *engine.Engine) *HistoryHandler {
	return &HistoryHandler{engine: e}
}

// List returns decision logs filtered by time range, outcome and rule id.
// No matches yields an empty array, not an error.
func (h *HistoryHandler) List(c *gin.Context) {
	filter := engine.HistoryFilter{
		Outcome: models.Outcome(c.Query("outcome")),
		RuleID:  c.Query("rule_id"),
	}
	if v := c.Query("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return
		}
		filter.Since = since
	}
	c.JSON(http.StatusOK, h.engine.History(filter))
}
