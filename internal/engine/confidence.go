package engine

import "github.com/corvid-labs/moirai/internal/models"

// confidenceBase is the starting score before history and category
// adjustments are applied.
const confidenceBase = 70.0

// scoreConfidence computes a 0-100 confidence for a triggered rule. The
// order is fixed: base, then the last-10 success-history adjustment, then
// the category bonus, then the clamp.
func scoreConfidence(rule *models.Rule, history []models.DecisionLog) float64 {
	confidence := confidenceBase

	recent := recentExecutions(rule.ID, history, 10)
	if len(recent) > 0 {
		successes := 0
		for _, log := range recent {
			if log.Outcome == models.OutcomeSuccess {
				successes++
			}
		}
		successRate := float64(successes) / float64(len(recent))
		confidence += (successRate - 0.5) * 40
	}

	switch rule.Category {
	case models.CategorySecurity:
		confidence += 20
	case models.CategoryPerformance:
		confidence += 15
	case models.CategoryCostOptimization:
		confidence += 5
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

// recentExecutions returns the last n history entries in which the rule
// produced at least one decision, oldest first.
func recentExecutions(ruleID string, history []models.DecisionLog, n int) []models.DecisionLog {
	var matched []models.DecisionLog
	for _, log := range history {
		for _, d := range log.Decisions {
			if d.RuleID == ruleID {
				matched = append(matched, log)
				break
			}
		}
	}
	if len(matched) > n {
		matched = matched[len(matched)-n:]
	}
	return matched
}
