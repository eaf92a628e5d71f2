package models

import "time"

// DecisionContext is an immutable snapshot of the system and business state,
// produced once per decision cycle and never edited afterwards.
type DecisionContext struct {
	Timestamp       time.Time           `json:"timestamp"`
	SystemMetrics   SystemMetrics       `json:"system_metrics"`
	BusinessMetrics BusinessMetrics     `json:"business_metrics"`
	ExternalFactors ExternalFactors     `json:"external_factors"`
	UserBehavior    UserBehaviorMetrics `json:"user_behavior"`
}

type SystemMetrics struct {
	CPU          float64 `json:"cpu"`
	Memory       float64 `json:"memory"`
	Disk         float64 `json:"disk"`
	Network      float64 `json:"network"`
	ResponseTime float64 `json:"response_time"`
	ErrorRate    float64 `json:"error_rate"`
	Throughput   float64 `json:"throughput"`
}

type BusinessMetrics struct {
	ActiveUsers          int     `json:"active_users"`
	Revenue              float64 `json:"revenue"`
	ConversionRate       float64 `json:"conversion_rate"`
	ChurnRate            float64 `json:"churn_rate"`
	CustomerSatisfaction float64 `json:"customer_satisfaction"`
	SupportTickets       int     `json:"support_tickets"`
}

type ExternalFactors struct {
	TimeOfDay          int    `json:"time_of_day"`
	DayOfWeek          int    `json:"day_of_week"`
	Seasonality        string `json:"seasonality"` // low, medium, high
	MarketConditions   string `json:"market_conditions"`
	CompetitorActivity string `json:"competitor_activity"`
}

type UserBehaviorMetrics struct {
	SessionDuration    float64            `json:"session_duration"`
	PageViews          float64            `json:"page_views"`
	BounceRate         float64            `json:"bounce_rate"`
	ConversionFunnel   map[string]float64 `json:"conversion_funnel"`
	DeviceDistribution map[string]float64 `json:"device_distribution"`
}
