package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/corvid-labs/moirai/internal/models"
)

// SimulatedProvider is the default context provider. It synthesizes system
// and business metrics and derives the external factors from the clock, so
// the engine can run end to end before real telemetry is wired in.
type SimulatedProvider struct {
	rng *rand.Rand
	now func() time.Time
}

// NewSimulatedProvider seeds the provider from the current time.
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Sample builds one DecisionContext snapshot.
func (p *SimulatedProvider) Sample(ctx context.Context) (models.DecisionContext, error) {
	if err := ctx.Err(); err != nil {
		return models.DecisionContext{}, err
	}

	now := p.now()
	return models.DecisionContext{
		Timestamp: now,
		SystemMetrics: models.SystemMetrics{
			CPU:          p.rng.Float64() * 100,
			Memory:       p.rng.Float64() * 100,
			Disk:         p.rng.Float64() * 100,
			Network:      p.rng.Float64() * 100,
			ResponseTime: p.rng.Float64()*1000 + 100,
			ErrorRate:    p.rng.Float64() * 10,
			Throughput:   p.rng.Float64()*1000 + 100,
		},
		BusinessMetrics: models.BusinessMetrics{
			ActiveUsers:          p.rng.Intn(1000),
			Revenue:              p.rng.Float64() * 10000,
			ConversionRate:       p.rng.Float64() * 10,
			ChurnRate:            p.rng.Float64() * 5,
			CustomerSatisfaction: p.rng.Float64() * 100,
			SupportTickets:       p.rng.Intn(50),
		},
		ExternalFactors: models.ExternalFactors{
			TimeOfDay:          now.Hour(),
			DayOfWeek:          int(now.Weekday()),
			Seasonality:        seasonality(now.Hour()),
			MarketConditions:   "stable",
			CompetitorActivity: "low",
		},
		UserBehavior: models.UserBehaviorMetrics{
			SessionDuration: p.rng.Float64()*600 + 60,
			PageViews:       p.rng.Float64()*20 + 1,
			BounceRate:      p.rng.Float64() * 80,
			ConversionFunnel: map[string]float64{
				"landing": 100,
				"signup":  30,
				"trial":   15,
				"paid":    5,
			},
			DeviceDistribution: map[string]float64{
				"desktop": 60,
				"mobile":  35,
				"tablet":  5,
			},
		},
	}, nil
}

// seasonality classifies the hour of day into demand bands.
func seasonality(hour int) string {
	if hour >= 9 && hour <= 17 {
		return "high"
	}
	if hour >= 6 && hour <= 22 {
		return "medium"
	}
	return "low"
}
