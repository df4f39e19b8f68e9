package service

import (
	"math"
	"sort"

	"github.com/voicehealth/backend/internal/models"
)

// ComputeTriggerCorrelations finds triggers statistically associated with
// each symptom. For every symptom occurrence the candidate triggers are the
// ones listed on the entry itself plus those on earlier entries less than
// TriggerLookback before it; entries are chronological, so the backward
// scan stops at the first entry outside the window.
//
// The input must be sorted ascending by LoggedAt. The analyzers do not
// re-sort defensively; unsorted input produces undefined results.
func ComputeTriggerCorrelations(entries []models.Entry) []models.TriggerCorrelation {
	symptomTotals := newOrderedCounter()
	pairCounts := make(map[string]*orderedCounter) // symptom -> per-trigger counts

	for i, entry := range entries {
		if len(entry.Symptoms) == 0 {
			continue
		}

		candidates := candidateTriggers(entries, i)

		for _, symptom := range entry.Symptoms {
			symptomTotals.Inc(symptom)
			pairs, ok := pairCounts[symptom]
			if !ok {
				pairs = newOrderedCounter()
				pairCounts[symptom] = pairs
			}
			for _, trigger := range candidates {
				pairs.Inc(trigger)
			}
		}
	}

	results := make([]models.TriggerCorrelation, 0)
	for _, symptom := range symptomTotals.Keys() {
		total := symptomTotals.Count(symptom)
		if total < MinSymptomOccurrences {
			continue
		}
		pairs := pairCounts[symptom]
		for _, trigger := range pairs.Keys() {
			count := pairs.Count(trigger)
			if count < MinPairCooccurrences {
				continue
			}
			score := round2(float64(count) / float64(total))
			if score < MinCorrelationScore {
				continue
			}
			results = append(results, models.TriggerCorrelation{
				Symptom:    symptom,
				Trigger:    trigger,
				Score:      score,
				SampleSize: total,
			})
		}
	}

	// Strongest associations first; insertion order breaks ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// candidateTriggers collects the deduplicated triggers in scope for the
// entry at index i, preserving first-seen order. An earlier entry is in
// scope only when strictly less than TriggerLookback before entry i.
func candidateTriggers(entries []models.Entry, i int) []string {
	seen := newOrderedCounter() // used as an ordered set
	for _, trigger := range entries[i].PotentialTriggers {
		seen.Inc(trigger)
	}
	for j := i - 1; j >= 0; j-- {
		if entries[i].LoggedAt.Sub(entries[j].LoggedAt) >= TriggerLookback {
			break
		}
		for _, trigger := range entries[j].PotentialTriggers {
			seen.Inc(trigger)
		}
	}
	return seen.Keys()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
