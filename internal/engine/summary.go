package engine

import (
	"sort"
	"time"

	"github.com/corvid-labs/moirai/internal/models"
)

// RulePerformance summarizes one rule's historical behavior.
type RulePerformance struct {
	RuleID         string  `json:"rule_id"`
	Name           string  `json:"name"`
	ExecutionCount int     `json:"execution_count"`
	SuccessRate    float64 `json:"success_rate"`
}

// Summary is the aggregate metrics view exposed to operators.
type Summary struct {
	TotalRules           int               `json:"total_rules"`
	ActiveRules          int               `json:"active_rules"`
	DecisionsLast24h     int               `json:"decisions_last_24h"`
	DecisionsLastWeek    int               `json:"decisions_last_week"`
	SuccessRate          float64           `json:"success_rate"`
	AverageConfidence    float64           `json:"average_confidence"`
	TopPerformingRules   []RulePerformance `json:"top_performing_rules"`
	CategoryDistribution map[string]int    `json:"category_distribution"`
}

// Summarize computes the aggregate metrics over the current rule set and
// decision history. Success rate and average confidence cover the last 24h.
func (e *Engine) Summarize() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	last24h := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	s := Summary{
		TotalRules:           len(e.rules),
		CategoryDistribution: make(map[string]int),
	}
	for _, r := range e.rules {
		if r.Enabled {
			s.ActiveRules++
		}
		s.CategoryDistribution[string(r.Category)]++
	}

	var recentSuccess, confidenceSum float64
	var recent int
	for _, log := range e.history {
		if log.Timestamp.After(lastWeek) {
			s.DecisionsLastWeek++
		}
		if !log.Timestamp.After(last24h) {
			continue
		}
		s.DecisionsLast24h++
		recent++
		if log.Outcome == models.OutcomeSuccess {
			recentSuccess++
		}
		if len(log.Decisions) > 0 {
			var sum float64
			for _, d := range log.Decisions {
				sum += d.Confidence
			}
			confidenceSum += sum / float64(len(log.Decisions))
		}
	}
	if recent > 0 {
		s.SuccessRate = recentSuccess / float64(recent)
		s.AverageConfidence = confidenceSum / float64(recent)
	}

	s.TopPerformingRules = e.topPerformingRulesLocked(5)
	return s
}

// topPerformingRulesLocked ranks executed rules by all-time success rate.
// Caller holds mu.
func (e *Engine) topPerformingRulesLocked(limit int) []RulePerformance {
	perf := make([]RulePerformance, 0, len(e.rules))
	for _, rule := range e.rules {
		if rule.ExecutionCount == 0 {
			continue
		}
		total, successes := 0, 0
		for _, log := range e.history {
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
		rate := 0.0
		if total > 0 {
			rate = float64(successes) / float64(total)
		}
		perf = append(perf, RulePerformance{
			RuleID:         rule.ID,
			Name:           rule.Name,
			ExecutionCount: rule.ExecutionCount,
			SuccessRate:    rate,
		})
	}
	sort.Slice(perf, func(i, j int) bool {
		return perf[i].SuccessRate > perf[j].SuccessRate
	})
	if len(perf) > limit {
		perf = perf[:limit]
	}
	return perf
}
