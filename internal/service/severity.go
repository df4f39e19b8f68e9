package service

import (
	"math"

	"github.com/voicehealth/backend/internal/models"
)

// trendAccumulator keeps the running sums of a streaming least-squares fit,
// so the regression needs no second pass over the points.
type trendAccumulator struct {
	n     int
	sumX  float64
	sumY  float64
	sumXY float64
	sumXX float64
}

func (a *trendAccumulator) add(x, y float64) {
	a.n++
	a.sumX += x
	a.sumY += y
	a.sumXY += x * y
	a.sumXX += x * x
}

// slope solves the closed-form least-squares slope
// (n*Σxy − Σx*Σy) / (n*Σx² − (Σx)²). A zero denominator means every point
// shares the same elapsed time; the slope is defined as 0 in that case.
func (a *trendAccumulator) slope() float64 {
	n := float64(a.n)
	denom := n*a.sumXX - a.sumX*a.sumX
	if denom == 0 {
		return 0
	}
	return (n*a.sumXY - a.sumX*a.sumY) / denom
}

// ComputeSeverityTrends fits a severity-over-time line per symptom and
// classifies its direction. Each entry that lists the symptom and reports
// a severity contributes one (elapsed hours, severity) point, with elapsed
// hours measured from the first entry of the whole history — a shared time
// origin across all symptoms, not each symptom's first occurrence.
func ComputeSeverityTrends(entries []models.Entry) []models.SeverityTrend {
	trends := make([]models.SeverityTrend, 0)
	if len(entries) == 0 {
		return trends
	}

	origin := entries[0].LoggedAt

	var order []string
	accs := make(map[string]*trendAccumulator)

	for _, entry := range entries {
		if len(entry.Symptoms) == 0 || entry.Severity == nil {
			continue
		}
		x := entry.LoggedAt.Sub(origin).Hours()
		y := float64(*entry.Severity)
		for _, symptom := range entry.Symptoms {
			acc, ok := accs[symptom]
			if !ok {
				acc = &trendAccumulator{}
				accs[symptom] = acc
				order = append(order, symptom)
			}
			acc.add(x, y)
		}
	}

	for _, symptom := range order {
		acc := accs[symptom]
		if acc.n < MinTrendPoints {
			continue
		}

		// Classify on the raw slope; only the reported value is rounded.
		slope := acc.slope()
		trend := models.TrendStable
		switch {
		case slope > TrendSlopeFloor:
			trend = models.TrendWorsening
		case slope < -TrendSlopeFloor:
			trend = models.TrendImproving
		}

		trends = append(trends, models.SeverityTrend{
			Symptom:    symptom,
			Trend:      trend,
			Slope:      round5(slope),
			DataPoints: acc.n,
		})
	}

	return trends
}

func round5(v float64) float64 {
	return math.Round(v*100000) / 100000
}
