package service

import (
	"github.com/voicehealth/backend/internal/models"
)

// dayNames indexes time.Weekday (Sunday = 0). Peak-day ties resolve to the
// earliest day in this canonical order.
var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ComputeTemporalPatterns detects whether symptoms cluster on a specific
// day of week or time-of-day context. A symptom is reported when the peak
// bucket on either axis holds a strict majority of its occurrences; each
// peak field is then populated only when its own axis clears the field
// share floor, so a pattern can carry just one of the two.
//
// Day buckets come from LoggedAt; time buckets are the raw TimeContext
// labels, an open caller-defined vocabulary used without normalization.
// Time-context ties resolve to the label first encountered in entry order.
func ComputeTemporalPatterns(entries []models.Entry) []models.TemporalPattern {
	symptomTotals := newOrderedCounter()
	dayCounts := make(map[string]*[7]int)
	timeCounts := make(map[string]*orderedCounter)

	for _, entry := range entries {
		if len(entry.Symptoms) == 0 {
			continue
		}
		day := int(entry.LoggedAt.Weekday())
		for _, symptom := range entry.Symptoms {
			symptomTotals.Inc(symptom)

			days, ok := dayCounts[symptom]
			if !ok {
				days = new([7]int)
				dayCounts[symptom] = days
			}
			days[day]++

			if entry.TimeContext != nil && *entry.TimeContext != "" {
				times, ok := timeCounts[symptom]
				if !ok {
					times = newOrderedCounter()
					timeCounts[symptom] = times
				}
				times.Inc(*entry.TimeContext)
			}
		}
	}

	patterns := make([]models.TemporalPattern, 0)
	for _, symptom := range symptomTotals.Keys() {
		total := symptomTotals.Count(symptom)
		if total < MinPatternOccurrences {
			continue
		}

		days := dayCounts[symptom]
		peakDay, peakDayCount := 0, days[0]
		for d := 1; d < 7; d++ {
			if days[d] > peakDayCount {
				peakDay, peakDayCount = d, days[d]
			}
		}
		dayShare := float64(peakDayCount) / float64(total)

		var peakTime string
		var timeShare float64
		if times, ok := timeCounts[symptom]; ok {
			label, count := times.Peak()
			peakTime = label
			// Share of all occurrences, not just those with a context.
			timeShare = float64(count) / float64(total)
		}

		if dayShare <= PatternShareFloor && timeShare <= PatternShareFloor {
			continue
		}

		pattern := models.TemporalPattern{Symptom: symptom, Frequency: total}
		if dayShare > PeakFieldShareFloor {
			name := dayNames[peakDay]
			pattern.PeakDay = &name
		}
		if timeShare > PeakFieldShareFloor {
			label := peakTime
			pattern.PeakTime = &label
		}
		patterns = append(patterns, pattern)
	}

	return patterns
}
