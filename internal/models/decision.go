package models

import "time"

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailure Outcome = "failure"
)

// BusinessDecision is one rule-action pairing produced during a cycle.
// Result holds whatever the dispatcher returned, or an error payload when
// the dispatch failed.
type BusinessDecision struct {
	RuleID     string      `json:"rule_id"`
	Action     Action      `json:"action"`
	Confidence float64     `json:"confidence"`
	Reasoning  string      `json:"reasoning"`
	Executed   bool        `json:"executed"`
	Result     interface{} `json:"result,omitempty"`
}

// DecisionImpact carries estimated percentage deltas attributed to a cycle's
// executed decisions.
type DecisionImpact struct {
	PerformanceChange    *float64 `json:"performance_change,omitempty"`
	CostChange           *float64 `json:"cost_change,omitempty"`
	UserExperienceChange *float64 `json:"user_experience_change,omitempty"`
	SecurityChange       *float64 `json:"security_change,omitempty"`
}

// DecisionLog records one completed decision cycle: the context that was
// sampled, which rules fired, and what happened when their actions ran.
type DecisionLog struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Context        DecisionContext    `json:"context"`
	TriggeredRules []string           `json:"triggered_rules"`
	Decisions      []BusinessDecision `json:"decisions"`
	Outcome        Outcome            `json:"outcome"`
	Impact         DecisionImpact     `json:"impact"`
}
