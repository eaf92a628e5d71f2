package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/moirai/internal/models"
)

func TestSummarizeEmptyEngine(t *testing.T) {
	e := newTestEngine(t, nil, nil)

	s := e.Summarize()
	assert.Zero(t, s.TotalRules)
	assert.Zero(t, s.ActiveRules)
	assert.Zero(t, s.DecisionsLast24h)
	assert.Zero(t, s.SuccessRate)
	assert.Empty(t, s.TopPerformingRules)
	assert.Empty(t, s.CategoryDistribution)
}

func TestSummarizeAggregates(t *testing.T) {
	e := newTestEngine(t, nil, nil)

	perfID, err := e.CreateRule(scaleUpRule(1))
	require.NoError(t, err)

	security := scaleUpRule(2)
	security.Name = "Intrusion Response"
	security.Category = models.CategorySecurity
	secID, err := e.CreateRule(security)
	require.NoError(t, err)

	disabled := scaleUpRule(3)
	disabled.Name = "Dormant"
	disabled.Enabled = false
	_, err = e.CreateRule(disabled)
	require.NoError(t, err)

	setExecutionCount(e, perfID, 4)
	setExecutionCount(e, secID, 2)

	now := time.Now()
	e.mu.Lock()
	e.history = append(e.history,
		models.DecisionLog{
			Timestamp: now.Add(-time.Hour),
			Outcome:   models.OutcomeSuccess,
			Decisions: []models.BusinessDecision{{RuleID: perfID, Confidence: 90}},
		},
		models.DecisionLog{
			Timestamp: now.Add(-2 * time.Hour),
			Outcome:   models.OutcomePartial,
			Decisions: []models.BusinessDecision{{RuleID: secID, Confidence: 70}},
		},
		models.DecisionLog{
			Timestamp: now.Add(-3 * 24 * time.Hour),
			Outcome:   models.OutcomeSuccess,
			Decisions: []models.BusinessDecision{{RuleID: perfID, Confidence: 80}},
		},
	)
	e.mu.Unlock()

	s := e.Summarize()
	assert.Equal(t, 3, s.TotalRules)
	assert.Equal(t, 2, s.ActiveRules)
	assert.Equal(t, 2, s.DecisionsLast24h)
	assert.Equal(t, 3, s.DecisionsLastWeek)
	assert.InDelta(t, 0.5, s.SuccessRate, 1e-9)
	assert.InDelta(t, 80.0, s.AverageConfidence, 1e-9)
	assert.Equal(t, 2, s.CategoryDistribution["performance"])
	assert.Equal(t, 1, s.CategoryDistribution["security"])

	// Both executed rules are ranked, best success rate first.
	require.Len(t, s.TopPerformingRules, 2)
	assert.Equal(t, perfID, s.TopPerformingRules[0].RuleID)
	assert.InDelta(t, 1.0, s.TopPerformingRules[0].SuccessRate, 1e-9)
	assert.Equal(t, secID, s.TopPerformingRules[1].RuleID)
	assert.Zero(t, s.TopPerformingRules[1].SuccessRate)
}
