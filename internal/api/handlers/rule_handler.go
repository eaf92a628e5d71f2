package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corvid-labs/moirai/internal/engine"
	"github.com/corvid-labs/moirai/internal/models"
)

type RuleHandler struct {
	engine *engine.Engine
}

func NewRuleHandler(e *engine.Engine) *RuleHandler {
	return &RuleHandler{engine: e}
}

func (h *RuleHandler) Create(c *gin.Context) {
	var spec engine.RuleSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule payload"})
		return
	}
	if len(spec.Conditions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rule requires at least one condition"})
		return
	}

	id, err := h.engine.CreateRule(spec)
	if err != nil {
		// The rule is committed in memory; report the persistence failure.
		c.JSON(http.StatusInternalServerError, gin.H{"id": id, "error": "rule created but not persisted"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *RuleHandler) List(c *gin.Context) {
	filter := engine.RuleFilter{
		Category: models.RuleCategory(c.Query("category")),
	}
	if v := c.Query("enabled"); v != "" {
		enabled := v == "true"
		filter.Enabled = &enabled
	}
	c.JSON(http.StatusOK, h.engine.ListRules(filter))
}

func (h *RuleHandler) Get(c *gin.Context) {
	rule, err := h.engine.GetRule(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *RuleHandler) Update(c *gin.Context) {
	var upd engine.RuleUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	if err := h.engine.UpdateRule(c.Param("id"), upd); err != nil {
		if errors.Is(err, engine.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rule updated but not persisted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule updated"})
}

func (h *RuleHandler) Delete(c *gin.Context) {
	if err := h.engine.DeleteRule(c.Param("id")); err != nil {
		if errors.Is(err, engine.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rule deleted but not persisted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}
