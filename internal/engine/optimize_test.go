package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/moirai/internal/models"
)

func seedHistory(e *Engine, ruleID string, successes, total int, at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < total; i++ {
		outcome := models.OutcomePartial
		if i < successes {
			outcome = models.OutcomeSuccess
		}
		e.history = append(e.history, models.DecisionLog{
			ID:        fmt.Sprintf("seed-%s-%d", ruleID, i),
			Timestamp: at,
			Outcome:   outcome,
			Decisions: []models.BusinessDecision{{RuleID: ruleID}},
		})
	}
}

func setExecutionCount(e *Engine, ruleID string, n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules[ruleID].ExecutionCount = n
}

type spyNotifier struct {
	disabled []string
	rates    []float64
}

func (n *spyNotifier) RuleDisabled(name string, successRate float64) {
	n.disabled = append(n.disabled, name)
	n.rates = append(n.rates, successRate)
}

func TestOptimizeDisablesChronicallyFailingRule(t *testing.T) {
	repo := &countingRepo{}
	notifier := &spyNotifier{}
	e, err := New(Options{Provider: &fakeProvider{}, Dispatcher: &fakeDispatcher{}, Repository: repo, Notifier: notifier})
	require.NoError(t, err)

	id, err := e.CreateRule(scaleUpRule(1))
	require.NoError(t, err)
	setExecutionCount(e, id, 20)
	seedHistory(e, id, 2, 10, time.Now())

	savesBefore := repo.saves
	require.NoError(t, e.Optimize())

	rule, err := e.GetRule(id)
	require.NoError(t, err)
	assert.False(t, rule.Enabled)
	assert.Equal(t, savesBefore+1, repo.saves)

	// Disabling a rule raises an optimizer event with the observed rate.
	require.Len(t, notifier.disabled, 1)
	assert.Equal(t, "High CPU Auto-Scale", notifier.disabled[0])
	assert.InDelta(t, 0.2, notifier.rates[0], 1e-9)

	// Promotions and no-op passes stay silent.
	require.NoError(t, e.Optimize())
	assert.Len(t, notifier.disabled, 1)
}

func TestOptimizeKeepsFailingRuleBelowExecutionFloor(t *testing.T) {
	e := newTestEngine(t, nil, nil)

	id, err := e.CreateRule(scaleUpRule(1))
	require.NoError(t, err)
	setExecutionCount(e, id, 5)
	seedHistory(e, id, 0, 10, time.Now())

	require.NoError(t, e.Optimize())

	rule, err := e.GetRule(id)
	require.NoError(t, err)
	assert.True(t, rule.Enabled)
}

func TestOptimizePromotesSuccessfulRule(t *testing.T) {
	e := newTestEngine(t, nil, nil)

	id, err := e.CreateRule(scaleUpRule(3))
	require.NoError(t, err)
	seedHistory(e, id, 10, 10, time.Now())

	require.NoError(t, e.Optimize())

	rule, err := e.GetRule(id)
	require.NoError(t, err)
	assert.Equal(t, 2, rule.Priority)
}

func TestOptimizePriorityFloorIsOne(t *testing.T) {
	e := newTestEngine(t, nil, nil)

	id, err := e.CreateRule(scaleUpRule(1))
	require.NoError(t, err)
	seedHistory(e, id, 10, 10, time.Now())

	require.NoError(t, e.Optimize())

	rule, err := e.GetRule(id)
	require.NoError(t, err)
	assert.Equal(t, 1, rule.Priority)
}

func TestOptimizeIgnoresHistoryOutsideWindow(t *testing.T) {
	e := newTestEngine(t, nil, nil)

	id, err := e.CreateRule(scaleUpRule(1))
	require.NoError(t, err)
	setExecutionCount(e, id, 20)
	seedHistory(e, id, 0, 10, time.Now().Add(-8*24*time.Hour))

	require.NoError(t, e.Optimize())

	rule, err := e.GetRule(id)
	require.NoError(t, err)
	assert.True(t, rule.Enabled)
}

func TestOptimizeIdempotentWithoutNewHistory(t *testing.T) {
	repo := &countingRepo{}
	e, err := New(Options{Provider: &fakeProvider{}, Dispatcher: &fakeDispatcher{}, Repository: repo})
	require.NoError(t, err)

	id, err := e.CreateRule(scaleUpRule(3))
	require.NoError(t, err)
	seedHistory(e, id, 10, 10, time.Now())

	require.NoError(t, e.Optimize())
	rule, err := e.GetRule(id)
	require.NoError(t, err)
	require.Equal(t, 2, rule.Priority)

	// A second pass over the same history promotes again until the floor,
	// then holds steady without further saves.
	require.NoError(t, e.Optimize())
	rule, err = e.GetRule(id)
	require.NoError(t, err)
	require.Equal(t, 1, rule.Priority)

	savesBefore := repo.saves
	require.NoError(t, e.Optimize())
	rule, err = e.GetRule(id)
	require.NoError(t, err)
	assert.Equal(t, 1, rule.Priority)
	assert.True(t, rule.Enabled)
	assert.Equal(t, savesBefore, repo.saves)
}

func TestOptimizeNoHistoryIsNoOp(t *testing.T) {
	repo := &countingRepo{}
	e, err := New(Options{Provider: &fakeProvider{}, Dispatcher: &fakeDispatcher{}, Repository: repo})
	require.NoError(t, err)

	_, err = e.CreateRule(scaleUpRule(1))
	require.NoError(t, err)

	savesBefore := repo.saves
	require.NoError(t, e.Optimize())
	assert.Equal(t, savesBefore, repo.saves)
}
