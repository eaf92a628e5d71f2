package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/corvid-labs/moirai/internal/logger"
	"github.com/corvid-labs/moirai/internal/models"
)

const (
	// contextBufferCap bounds the ring buffer of recent contexts kept for
	// trend analysis.
	contextBufferCap = 100
	// historyCap bounds the decision history; oldest logs are evicted first.
	historyCap = 1000
)

// ErrRuleNotFound is returned by update/delete operations on unknown rule ids.
var ErrRuleNotFound = errors.New("rule not found")

// ContextProvider produces one DecisionContext snapshot per call.
type ContextProvider interface {
	Sample(ctx context.Context) (models.DecisionContext, error)
}

// ActionDispatcher executes a single action and returns its result. Failures
// are ordinary error values; the cycle records them and carries on.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, action models.Action) (interface{}, error)
}

// RuleRepository persists the full rule set. It is invoked after every
// mutating store operation and at the end of each optimizer pass.
type RuleRepository interface {
	LoadAll() ([]models.Rule, error)
	SaveAll(rules []models.Rule) error
}

// OptimizerNotifier receives optimizer events. Calls happen outside the
// engine lock; implementations must not call back into the engine.
type OptimizerNotifier interface {
	RuleDisabled(name string, successRate float64)
}

// Engine owns the mutable decision state: the rule set, the bounded decision
// history and the context ring buffer. All writers go through its mutex;
// dispatch happens with the lock released.
type Engine struct {
	mu       sync.Mutex
	rules    map[string]*models.Rule
	ruleSeq  map[string]int // insertion order, breaks priority ties
	nextSeq  int
	history  []models.DecisionLog
	contexts []models.DecisionContext

	provider        ContextProvider
	dispatcher      ActionDispatcher
	repo            RuleRepository
	notifier        OptimizerNotifier
	dispatchTimeout time.Duration

	cycleRunning bool
	log          *logrus.Entry
}

// Options configures a new Engine.
type Options struct {
	Provider        ContextProvider
	Dispatcher      ActionDispatcher
	Repository      RuleRepository
	Notifier        OptimizerNotifier
	DispatchTimeout time.Duration
}

// New builds an Engine and loads any persisted rules from the repository.
func New(opts Options) (*Engine, error) {
	if opts.Provider == nil {
		return nil, errors.New("engine: context provider is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("engine: action dispatcher is required")
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = 30 * time.Second
	}

	e := &Engine{
		rules:           make(map[string]*models.Rule),
		ruleSeq:         make(map[string]int),
		provider:        opts.Provider,
		dispatcher:      opts.Dispatcher,
		repo:            opts.Repository,
		notifier:        opts.Notifier,
		dispatchTimeout: opts.DispatchTimeout,
		log:             logger.WithFields(logrus.Fields{"component": "engine"}),
	}

	if e.repo != nil {
		rules, err := e.repo.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		for i := range rules {
			r := rules[i]
			e.rules[r.ID] = &r
			e.ruleSeq[r.ID] = e.nextSeq
			e.nextSeq++
		}
		e.log.WithField("count", len(rules)).Info("loaded rules")
	}

	return e, nil
}

// RuleSpec describes a rule to create. ID, timestamps and the execution
// counters are assigned by the engine.
type RuleSpec struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    models.RuleCategory `json:"category"`
	Conditions  []models.Condition  `json:"conditions"`
	Actions     []models.Action     `json:"actions"`
	Priority    int                 `json:"priority"`
	Enabled     bool                `json:"enabled"`
}

// CreateRule adds a rule to the store and persists the rule set. The
// in-memory change stands even when persistence fails; the error is still
// returned to the caller.
func (e *Engine) CreateRule(spec RuleSpec) (string, error) {
	now := time.Now()
	rule := &models.Rule{
		ID:          uuid.New().String(),
		Name:        spec.Name,
		Description: spec.Description,
		Category:    spec.Category,
		Conditions:  spec.Conditions,
		Actions:     spec.Actions,
		Priority:    spec.Priority,
		Enabled:     spec.Enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	e.mu.Lock()
	e.rules[rule.ID] = rule
	e.ruleSeq[rule.ID] = e.nextSeq
	e.nextSeq++
	snapshot := e.snapshotRulesLocked()
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{"rule_id": rule.ID, "name": rule.Name}).Info("rule created")
	return rule.ID, e.persist(snapshot)
}

// RuleUpdate holds the mutable fields of a rule; nil fields are left as-is.
type RuleUpdate struct {
	Name        *string              `json:"name,omitempty"`
	Description *string              `json:"description,omitempty"`
	Category    *models.RuleCategory `json:"category,omitempty"`
	Conditions  *[]models.Condition  `json:"conditions,omitempty"`
	Actions     *[]models.Action     `json:"actions,omitempty"`
	Priority    *int                 `json:"priority,omitempty"`
	Enabled     *bool                `json:"enabled,omitempty"`
}

// UpdateRule applies a partial update to an existing rule. Last write wins;
// ErrRuleNotFound is reported for unknown ids.
func (e *Engine) UpdateRule(id string, upd RuleUpdate) error {
	e.mu.Lock()
	rule, ok := e.rules[id]
	if !ok {
		e.mu.Unlock()
		return ErrRuleNotFound
	}
	if upd.Name != nil {
		rule.Name = *upd.Name
	}
	if upd.Description != nil {
		rule.Description = *upd.Description
	}
	if upd.Category != nil {
		rule.Category = *upd.Category
	}
	if upd.Conditions != nil {
		rule.Conditions = *upd.Conditions
	}
	if upd.Actions != nil {
		rule.Actions = *upd.Actions
	}
	if upd.Priority != nil {
		rule.Priority = *upd.Priority
	}
	if upd.Enabled != nil {
		rule.Enabled = *upd.Enabled
	}
	rule.UpdatedAt = time.Now()
	snapshot := e.snapshotRulesLocked()
	e.mu.Unlock()

	e.log.WithField("rule_id", id).Info("rule updated")
	return e.persist(snapshot)
}

// DeleteRule removes a rule from the store.
func (e *Engine) DeleteRule(id string) error {
	e.mu.Lock()
	if _, ok := e.rules[id]; !ok {
		e.mu.Unlock()
		return ErrRuleNotFound
	}
	delete(e.rules, id)
	delete(e.ruleSeq, id)
	snapshot := e.snapshotRulesLocked()
	e.mu.Unlock()

	e.log.WithField("rule_id", id).Info("rule deleted")
	return e.persist(snapshot)
}

// RuleFilter narrows ListRules results.
type RuleFilter struct {
	Category models.RuleCategory
	Enabled  *bool
}

// ListRules returns rules in insertion order, optionally filtered.
func (e *Engine) ListRules(filter RuleFilter) []models.Rule {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Rule, 0, len(e.rules))
	for _, r := range e.rules {
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.Enabled != nil && r.Enabled != *filter.Enabled {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		return e.ruleSeq[out[i].ID] < e.ruleSeq[out[j].ID]
	})
	return out
}

// GetRule returns a copy of a single rule.
func (e *Engine) GetRule(id string) (models.Rule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rule, ok := e.rules[id]
	if !ok {
		return models.Rule{}, ErrRuleNotFound
	}
	return *rule, nil
}

// HistoryFilter narrows History results.
type HistoryFilter struct {
	Since   time.Time
	Outcome models.Outcome
	RuleID  string
}

// History returns decision logs in original (oldest first) order, optionally
// filtered. A query with no matches returns an empty slice, never an error.
func (e *Engine) History(filter HistoryFilter) []models.DecisionLog {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.DecisionLog, 0, len(e.history))
	for _, log := range e.history {
		if !filter.Since.IsZero() && log.Timestamp.Before(filter.Since) {
			continue
		}
		if filter.Outcome != "" && log.Outcome != filter.Outcome {
			continue
		}
		if filter.RuleID != "" && !containsString(log.TriggeredRules, filter.RuleID) {
			continue
		}
		out = append(out, log)
	}
	return out
}

// snapshotRulesLocked copies the rule set in insertion order. Caller holds mu.
func (e *Engine) snapshotRulesLocked() []models.Rule {
	out := make([]models.Rule, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		return e.ruleSeq[out[i].ID] < e.ruleSeq[out[j].ID]
	})
	return out
}

// persist writes the rule set through the repository. Persistence is best
// effort: the in-memory state is already committed when this runs.
func (e *Engine) persist(rules []models.Rule) error {
	if e.repo == nil {
		return nil
	}
	if err := e.repo.SaveAll(rules); err != nil {
		e.log.WithError(err).Error("persist rules")
		return fmt.Errorf("persist rules: %w", err)
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
