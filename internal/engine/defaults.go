package engine

import (
	"fmt"

	"github.com/corvid-labs/moirai/internal/models"
)

// DefaultRules returns the rule set installed on first start with an empty
// store: a conservative baseline covering scaling, health and security.
func DefaultRules() []RuleSpec {
	return []RuleSpec{
		{
			Name:        "High CPU Auto-Scale",
			Description: "Automatically scale up when CPU usage exceeds 80%",
			Category:    models.CategoryPerformance,
			Conditions: []models.Condition{
				{Field: "systemMetrics.cpu", Operator: models.OperatorGreaterThan, Value: 80},
			},
			Actions: []models.Action{
				{Type: models.ActionScaleUp, Target: "system", Parameters: map[string]interface{}{"instances": 1, "reason": "high_cpu"}},
			},
			Priority: 1,
			Enabled:  true,
		},
		{
			Name:        "Memory Pressure Response",
			Description: "Clean up and optimize when memory usage exceeds 90%",
			Category:    models.CategoryPerformance,
			Conditions: []models.Condition{
				{Field: "systemMetrics.memory", Operator: models.OperatorGreaterThan, Value: 90},
			},
			Actions: []models.Action{
				{Type: models.ActionRunCommand, Target: "memory_optimizer", Parameters: map[string]interface{}{"action": "cleanup"}},
				{Type: models.ActionSendAlert, Target: "ops_team", Parameters: map[string]interface{}{"severity": "high", "message": "High memory usage detected"}},
			},
			Priority: 1,
			Enabled:  true,
		},
		{
			Name:        "High Error Rate Alert",
			Description: "Alert when error rate exceeds 5%",
			Category:    models.CategorySystemHealth,
			Conditions: []models.Condition{
				{Field: "systemMetrics.errorRate", Operator: models.OperatorGreaterThan, Value: 5},
			},
			Actions: []models.Action{
				{Type: models.ActionSendAlert, Target: "dev_team", Parameters: map[string]interface{}{"severity": "critical", "message": "High error rate detected"}},
				{Type: models.ActionCreateBackup, Target: "system_state", Parameters: map[string]interface{}{"reason": "high_errors"}},
			},
			Priority: 1,
			Enabled:  true,
		},
		{
			Name:        "Low Usage Scale Down",
			Description: "Scale down during low usage periods to save costs",
			Category:    models.CategoryCostOptimization,
			Conditions: []models.Condition{
				{Field: "systemMetrics.cpu", Operator: models.OperatorLessThan, Value: 20},
				{Field: "businessMetrics.activeUsers", Operator: models.OperatorLessThan, Value: 10, LogicalOperator: models.LogicalAnd},
			},
			Actions: []models.Action{
				{Type: models.ActionScaleDown, Target: "system", Parameters: map[string]interface{}{"instances": 1, "reason": "low_usage"}},
			},
			Priority: 3,
			Enabled:  true,
		},
		{
			Name:        "Security Threat Response",
			Description: "Respond to security threats automatically",
			Category:    models.CategorySecurity,
			Conditions: []models.Condition{
				{Field: "systemMetrics.securityScore", Operator: models.OperatorLessThan, Value: 70},
			},
			Actions: []models.Action{
				{Type: models.ActionSendAlert, Target: "security_team", Parameters: map[string]interface{}{"severity": "critical", "message": "Security threat detected"}},
				{Type: models.ActionUpdateConfig, Target: "security_settings", Parameters: map[string]interface{}{"lockdown_mode": true}},
			},
			Priority: 1,
			Enabled:  true,
		},
		{
			Name:        "Peak Hours Preparation",
			Description: "Prepare for peak hours by pre-scaling",
			Category:    models.CategoryUserExperience,
			Conditions: []models.Condition{
				{Field: "externalFactors.timeOfDay", Operator: models.OperatorIn, Value: []interface{}{8, 9, 17, 18, 19, 20}},
			},
			Actions: []models.Action{
				{Type: models.ActionScaleUp, Target: "system", Parameters: map[string]interface{}{"instances": 2, "reason": "peak_hours_prep"}},
			},
			Priority: 2,
			Enabled:  true,
		},
	}
}

// InstallDefaultRules creates the default rule set when the store is empty.
func (e *Engine) InstallDefaultRules() error {
	if len(e.ListRules(RuleFilter{})) > 0 {
		return nil
	}
	e.log.Info("empty rule store, installing default rules")
	for _, spec := range DefaultRules() {
		if _, err := e.CreateRule(spec); err != nil {
			return fmt.Errorf("install default rule %q: %w", spec.Name, err)
		}
	}
	return nil
}
