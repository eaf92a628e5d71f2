package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/corvid-labs/moirai/internal/models"
)

// fieldAccessors maps condition dot-paths onto the strongly typed context.
// Built once; unresolvable paths behave as an absent value (see evalCondition).
var fieldAccessors = map[string]func(models.DecisionContext) interface{}{
	"systemMetrics.cpu":          func(c models.DecisionContext) interface{} { return c.SystemMetrics.CPU },
	"systemMetrics.memory":       func(c models.DecisionContext) interface{} { return c.SystemMetrics.Memory },
	"systemMetrics.disk":         func(c models.DecisionContext) interface{} { return c.SystemMetrics.Disk },
	"systemMetrics.network":      func(c models.DecisionContext) interface{} { return c.SystemMetrics.Network },
	"systemMetrics.responseTime": func(c models.DecisionContext) interface{} { return c.SystemMetrics.ResponseTime },
	"systemMetrics.errorRate":    func(c models.DecisionContext) interface{} { return c.SystemMetrics.ErrorRate },
	"systemMetrics.throughput":   func(c models.DecisionContext) interface{} { return c.SystemMetrics.Throughput },

	"businessMetrics.activeUsers":          func(c models.DecisionContext) interface{} { return c.BusinessMetrics.ActiveUsers },
	"businessMetrics.revenue":              func(c models.DecisionContext) interface{} { return c.BusinessMetrics.Revenue },
	"businessMetrics.conversionRate":       func(c models.DecisionContext) interface{} { return c.BusinessMetrics.ConversionRate },
	"businessMetrics.churnRate":            func(c models.DecisionContext) interface{} { return c.BusinessMetrics.ChurnRate },
	"businessMetrics.customerSatisfaction": func(c models.DecisionContext) interface{} { return c.BusinessMetrics.CustomerSatisfaction },
	"businessMetrics.supportTickets":       func(c models.DecisionContext) interface{} { return c.BusinessMetrics.SupportTickets },

	"externalFactors.timeOfDay":          func(c models.DecisionContext) interface{} { return c.ExternalFactors.TimeOfDay },
	"externalFactors.dayOfWeek":          func(c models.DecisionContext) interface{} { return c.ExternalFactors.DayOfWeek },
	"externalFactors.seasonality":        func(c models.DecisionContext) interface{} { return c.ExternalFactors.Seasonality },
	"externalFactors.marketConditions":   func(c models.DecisionContext) interface{} { return c.ExternalFactors.MarketConditions },
	"externalFactors.competitorActivity": func(c models.DecisionContext) interface{} { return c.ExternalFactors.CompetitorActivity },

	"userBehavior.sessionDuration": func(c models.DecisionContext) interface{} { return c.UserBehavior.SessionDuration },
	"userBehavior.pageViews":       func(c models.DecisionContext) interface{} { return c.UserBehavior.PageViews },
	"userBehavior.bounceRate":      func(c models.DecisionContext) interface{} { return c.UserBehavior.BounceRate },
}

// resolveField looks up a dot-path in the context. The second return reports
// whether the path resolved; map-valued sub-fields (conversion funnel stages,
// device shares) resolve one level deeper.
func resolveField(ctx models.DecisionContext, path string) (interface{}, bool) {
	if fn, ok := fieldAccessors[path]; ok {
		return fn(ctx), true
	}
	if stage, ok := strings.CutPrefix(path, "userBehavior.conversionFunnel."); ok {
		v, ok := ctx.UserBehavior.ConversionFunnel[stage]
		return v, ok
	}
	if device, ok := strings.CutPrefix(path, "userBehavior.deviceDistribution."); ok {
		v, ok := ctx.UserBehavior.DeviceDistribution[device]
		return v, ok
	}
	return nil, false
}

// Evaluate reports whether a rule's condition chain holds for a context.
// A rule with no conditions never fires. Conditions are folded strictly
// left-to-right: each condition's logical operator combines its own result
// with the accumulated result of everything before it, with no precedence
// grouping.
func Evaluate(rule *models.Rule, ctx models.DecisionContext) bool {
	if len(rule.Conditions) == 0 {
		return false
	}

	result := evalCondition(rule.Conditions[0], ctx)
	for _, cond := range rule.Conditions[1:] {
		v := evalCondition(cond, ctx)
		if cond.LogicalOperator == models.LogicalOr {
			result = result || v
		} else {
			result = result && v
		}
	}
	return result
}

// evalCondition applies a single operator. An unresolvable field path yields
// an absent value that fails every operator except the negated ones, which
// it satisfies vacuously.
func evalCondition(cond models.Condition, ctx models.DecisionContext) bool {
	observed, found := resolveField(ctx, cond.Field)
	if !found {
		switch cond.Operator {
		case models.OperatorNotEquals, models.OperatorNotContains, models.OperatorNotIn:
			return true
		default:
			return false
		}
	}

	switch cond.Operator {
	case models.OperatorEquals:
		return looseEqual(observed, cond.Value)
	case models.OperatorNotEquals:
		return !looseEqual(observed, cond.Value)
	case models.OperatorGreaterThan:
		a, aok := toFloat(observed)
		b, bok := toFloat(cond.Value)
		return aok && bok && a > b
	case models.OperatorLessThan:
		a, aok := toFloat(observed)
		b, bok := toFloat(cond.Value)
		return aok && bok && a < b
	case models.OperatorContains:
		return strings.Contains(stringify(observed), stringify(cond.Value))
	case models.OperatorNotContains:
		return !strings.Contains(stringify(observed), stringify(cond.Value))
	case models.OperatorIn:
		return memberOf(cond.Value, observed)
	case models.OperatorNotIn:
		return isSequence(cond.Value) && !memberOf(cond.Value, observed)
	default:
		return false
	}
}

// looseEqual compares numerically when both sides are numbers, so a JSON
// float 80 matches an int context field.
func looseEqual(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// memberOf reports whether needle occurs in a slice value.
func memberOf(haystack, needle interface{}) bool {
	rv := reflect.ValueOf(haystack)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if looseEqual(rv.Index(i).Interface(), needle) {
			return true
		}
	}
	return false
}

func isSequence(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array)
}
