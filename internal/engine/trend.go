package engine

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Trend fits an ordinary least-squares line to the series against its index
// sequence 0..n-1, so slope is in metric units per sample. Series shorter
// than two points, and degenerate denominators, yield (0, 0).
func Trend(values []float64) (slope, correlation float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0
	}

	sumX := n * (n - 1) / 2
	sumX2 := n * (n - 1) * (2*n - 1) / 6
	var sumY, sumXY, sumY2 float64
	for i, v := range values {
		sumY += v
		sumXY += float64(i) * v
		sumY2 += v * v
	}

	den := n*sumX2 - sumX*sumX
	if den != 0 {
		slope = (n*sumXY - sumX*sumY) / den
	}

	corrDen := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if corrDen != 0 {
		correlation = (n*sumXY - sumX*sumY) / corrDen
	}
	return slope, correlation
}

// Advisory thresholds: a slope beyond these is surfaced in the logs. Trend
// detection is observational and never dispatches actions.
const (
	cpuSlopeThreshold       = 1.0
	userSlopeThreshold      = 2.0
	errorRateSlopeThreshold = 0.1
)

// AnalyzeTrends inspects the buffered contexts for directional drift in the
// key metrics. It copies the series under the lock and computes outside it,
// so it can run alongside an in-flight decision cycle.
func (e *Engine) AnalyzeTrends() {
	e.mu.Lock()
	if len(e.contexts) < 10 {
		e.mu.Unlock()
		return
	}
	cpu := make([]float64, len(e.contexts))
	users := make([]float64, len(e.contexts))
	errRate := make([]float64, len(e.contexts))
	for i, c := range e.contexts {
		cpu[i] = c.SystemMetrics.CPU
		users[i] = float64(c.BusinessMetrics.ActiveUsers)
		errRate[i] = c.SystemMetrics.ErrorRate
	}
	e.mu.Unlock()

	e.log.Debug("analyzing metric trends")

	if slope, corr := Trend(cpu); slope > cpuSlopeThreshold {
		e.log.WithFields(logrus.Fields{"metric": "cpu", "slope": slope, "correlation": corr}).
			Warn("cpu usage trending upward, consider proactive scaling")
	}
	if slope, corr := Trend(users); slope > userSlopeThreshold {
		e.log.WithFields(logrus.Fields{"metric": "active_users", "slope": slope, "correlation": corr}).
			Info("user growth trending upward, prepare for increased load")
	}
	if slope, corr := Trend(errRate); slope > errorRateSlopeThreshold {
		e.log.WithFields(logrus.Fields{"metric": "error_rate", "slope": slope, "correlation": corr}).
			Warn("error rate trending upward, investigate potential issues")
	}
}
