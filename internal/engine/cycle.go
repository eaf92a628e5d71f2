package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/corvid-labs/moirai/internal/metrics"
	"github.com/corvid-labs/moirai/internal/models"
)

// RunCycle executes one decision cycle: sample, evaluate, score, dispatch,
// log. Ticks arriving while a cycle is in flight are dropped. Dispatch runs
// outside the engine lock with a per-call timeout; all decisions are
// attempted regardless of earlier failures.
func (e *Engine) RunCycle(ctx context.Context) error {
	e.mu.Lock()
	if e.cycleRunning {
		e.mu.Unlock()
		metrics.IncCycleDropped()
		e.log.Debug("cycle still running, dropping tick")
		return nil
	}
	e.cycleRunning = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.cycleRunning = false
		e.mu.Unlock()
	}()

	snapshot, err := e.provider.Sample(ctx)
	if err != nil {
		metrics.IncSamplingFailure()
		e.log.WithError(err).Error("context sampling failed, abandoning cycle")
		return fmt.Errorf("sample context: %w", err)
	}

	e.mu.Lock()
	e.contexts = append(e.contexts, snapshot)
	if len(e.contexts) > contextBufferCap {
		e.contexts = e.contexts[len(e.contexts)-contextBufferCap:]
	}
	decisions := e.evaluateRulesLocked(snapshot)
	e.mu.Unlock()

	metrics.IncCycle()
	if len(decisions) == 0 {
		return nil
	}

	outcome := models.OutcomeSuccess
	succeeded := 0
	for i := range decisions {
		dctx, cancel := context.WithTimeout(ctx, e.dispatchTimeout)
		result, err := e.dispatcher.Dispatch(dctx, decisions[i].Action)
		cancel()

		decisions[i].Executed = true
		if err != nil {
			decisions[i].Result = map[string]interface{}{"error": err.Error()}
			outcome = models.OutcomePartial
			metrics.IncDispatchFailure()
			e.log.WithError(err).WithFields(logrus.Fields{
				"rule_id": decisions[i].RuleID,
				"action":  decisions[i].Action.Type,
				"target":  decisions[i].Action.Target,
			}).Error("action dispatch failed")
			continue
		}
		decisions[i].Result = result
		succeeded++
		e.log.WithFields(logrus.Fields{
			"rule_id":    decisions[i].RuleID,
			"action":     decisions[i].Action.Type,
			"confidence": decisions[i].Confidence,
		}).Info("executed business decision")
	}
	metrics.AddDecisions(len(decisions))

	now := time.Now()
	entry := models.DecisionLog{
		ID:             uuid.New().String(),
		Timestamp:      now,
		Context:        snapshot,
		TriggeredRules: dedupRuleIDs(decisions),
		Decisions:      decisions,
		Outcome:        outcome,
		Impact:         estimateImpact(succeeded),
	}

	e.mu.Lock()
	for _, id := range entry.TriggeredRules {
		if rule, ok := e.rules[id]; ok {
			rule.ExecutionCount++
			t := now
			rule.LastExecuted = &t
			rule.UpdatedAt = now
		}
	}
	e.history = append(e.history, entry)
	if len(e.history) > historyCap {
		e.history = e.history[len(e.history)-historyCap:]
	}
	rules := e.snapshotRulesLocked()
	e.mu.Unlock()

	return e.persist(rules)
}

// evaluateRulesLocked runs the condition evaluator over all enabled rules in
// priority order (stable on insertion order for ties) and scores each
// triggered rule. One decision is produced per action. Caller holds mu.
func (e *Engine) evaluateRulesLocked(snapshot models.DecisionContext) []models.BusinessDecision {
	enabled := make([]*models.Rule, 0, len(e.rules))
	for _, r := range e.rules {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}
	sort.Slice(enabled, func(i, j int) bool {
		return e.ruleSeq[enabled[i].ID] < e.ruleSeq[enabled[j].ID]
	})
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var decisions []models.BusinessDecision
	for _, rule := range enabled {
		if !Evaluate(rule, snapshot) {
			continue
		}
		confidence := scoreConfidence(rule, e.history)
		reasoning := buildReasoning(rule, snapshot)
		for _, action := range rule.Actions {
			decisions = append(decisions, models.BusinessDecision{
				RuleID:     rule.ID,
				Action:     action,
				Confidence: confidence,
				Reasoning:  reasoning,
			})
		}
	}
	return decisions
}

// buildReasoning renders a human-readable derivation of the condition chain,
// joined by each condition's own connector.
func buildReasoning(rule *models.Rule, snapshot models.DecisionContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rule %q triggered because: ", rule.Name)
	for i, cond := range rule.Conditions {
		if i > 0 {
			op := cond.LogicalOperator
			if op != models.LogicalOr {
				op = models.LogicalAnd
			}
			fmt.Fprintf(&b, " %s ", op)
		}
		observed, found := resolveField(snapshot, cond.Field)
		if !found {
			observed = "<absent>"
		}
		fmt.Fprintf(&b, "%s (%v) %s %v", cond.Field, observed, cond.Operator, cond.Value)
	}
	return b.String()
}

func dedupRuleIDs(decisions []models.BusinessDecision) []string {
	seen := make(map[string]struct{}, len(decisions))
	var ids []string
	for _, d := range decisions {
		if _, ok := seen[d.RuleID]; ok {
			continue
		}
		seen[d.RuleID] = struct{}{}
		ids = append(ids, d.RuleID)
	}
	return ids
}

// estimateImpact attributes rough percentage deltas to a cycle once at least
// one decision executed successfully. The estimates are heuristic
// placeholders until real feedback wiring exists.
func estimateImpact(succeeded int) models.DecisionImpact {
	if succeeded == 0 {
		return models.DecisionImpact{}
	}
	perf := rand.Float64()*20 - 10
	cost := rand.Float64()*30 - 15
	ux := rand.Float64() * 15
	sec := rand.Float64() * 10
	return models.DecisionImpact{
		PerformanceChange:    &perf,
		CostChange:           &cost,
		UserExperienceChange: &ux,
		SecurityChange:       &sec,
	}
}
