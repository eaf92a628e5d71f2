package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RuleCategory string

const (
	CategoryPerformance      RuleCategory = "performance"
	CategorySecurity         RuleCategory = "security"
	CategoryScaling          RuleCategory = "scaling"
	CategoryCostOptimization RuleCategory = "cost_optimization"
	CategoryUserExperience   RuleCategory = "user_experience"
	CategorySystemHealth     RuleCategory = "system_health"
	CategoryIntegration      RuleCategory = "integration"
	CategoryCompliance       RuleCategory = "compliance"
)

type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorContains    ConditionOperator = "contains"
	OperatorNotContains ConditionOperator = "not_contains"
	OperatorIn          ConditionOperator = "in"
	OperatorNotIn       ConditionOperator = "not_in"
)

type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// Condition is a single field/operator/value test against a DecisionContext.
// LogicalOperator describes how this condition combines with the running
// result of the conditions before it; it is ignored on the first condition.
type Condition struct {
	Field           string            `json:"field"`
	Operator        ConditionOperator `json:"operator"`
	Value           interface{}       `json:"value"`
	LogicalOperator LogicalOperator   `json:"logical_operator,omitempty"`
}

type ActionType string

const (
	ActionScaleUp         ActionType = "scale_up"
	ActionScaleDown       ActionType = "scale_down"
	ActionSendAlert       ActionType = "send_alert"
	ActionRunCommand      ActionType = "run_command"
	ActionUpdateConfig    ActionType = "update_config"
	ActionCreateBackup    ActionType = "create_backup"
	ActionRestartService  ActionType = "restart_service"
	ActionExecuteWorkflow ActionType = "execute_workflow"
	ActionNotifyTeam      ActionType = "notify_team"
)

// Action names an operation the dispatcher should perform when a rule fires.
// Parameters are passed through to the dispatcher verbatim.
type Action struct {
	Type       ActionType             `json:"type"`
	Target     string                 `json:"target"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Rule is a named condition-action unit. Priority and Enabled are mutated by
// the optimizer; ExecutionCount and LastExecuted only ever move forward and
// are updated by the decision cycle after a triggered execution.
type Rule struct {
	ID             string       `gorm:"primaryKey" json:"id"`
	Name           string       `json:"name" gorm:"index"`
	Description    string       `json:"description" gorm:"type:text"`
	Category       RuleCategory `json:"category" gorm:"index"`
	Conditions     []Condition  `json:"conditions" gorm:"serializer:json;type:text"`
	Actions        []Action     `json:"actions" gorm:"serializer:json;type:text"`
	Priority       int          `json:"priority"`
	Enabled        bool         `json:"enabled"`
	ExecutionCount int          `json:"execution_count"`
	LastExecuted   *time.Time   `json:"last_executed,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (r *Rule) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
