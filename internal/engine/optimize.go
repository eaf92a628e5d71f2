package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corvid-labs/moirai/internal/metrics"
	"github.com/corvid-labs/moirai/internal/models"
)

const (
	optimizerWindow      = 7 * 24 * time.Hour
	disableSuccessRate   = 0.3
	disableMinExecutions = 10
	promoteSuccessRate   = 0.9
)

// Optimize tunes the rule set from the trailing week of decision history:
// chronically failing rules are disabled, consistently succeeding ones move
// up in priority (floor 1). Re-running against unchanged history is a no-op.
func (e *Engine) Optimize() error {
	cutoff := time.Now().Add(-optimizerWindow)

	type disabledRule struct {
		name string
		rate float64
	}

	e.mu.Lock()
	changed := false
	var disabled []disabledRule
	for _, rule := range e.rules {
		total, successes := 0, 0
		for _, log := range e.history {
			if log.Timestamp.Before(cutoff) {
				continue
			}
			triggered := false
			for _, d := range log.Decisions {
				if d.RuleID == rule.ID {
					triggered = true
					break
				}
			}
			if !triggered {
				continue
			}
			total++
			if log.Outcome == models.OutcomeSuccess {
				successes++
			}
		}
		if total == 0 {
			continue
		}
		successRate := float64(successes) / float64(total)

		if successRate < disableSuccessRate && rule.ExecutionCount > disableMinExecutions && rule.Enabled {
			rule.Enabled = false
			rule.UpdatedAt = time.Now()
			changed = true
			disabled = append(disabled, disabledRule{name: rule.Name, rate: successRate})
			metrics.IncRuleDisabled()
			e.log.WithFields(logrus.Fields{
				"rule_id":      rule.ID,
				"name":         rule.Name,
				"success_rate": successRate,
			}).Warn("disabling underperforming rule")
		}

		if successRate > promoteSuccessRate && rule.Priority > 1 {
			rule.Priority--
			rule.UpdatedAt = time.Now()
			changed = true
			e.log.WithFields(logrus.Fields{
				"rule_id":  rule.ID,
				"name":     rule.Name,
				"priority": rule.Priority,
			}).Info("raised priority of successful rule")
		}
	}

	var snapshot []models.Rule
	if changed {
		snapshot = e.snapshotRulesLocked()
	}
	e.mu.Unlock()

	if e.notifier != nil {
		for _, d := range disabled {
			e.notifier.RuleDisabled(d.name, d.rate)
		}
	}

	if !changed {
		return nil
	}
	return e.persist(snapshot)
}
