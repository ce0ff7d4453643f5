// Package suspicion analyzes the activity ledger for patterns that
// make the account look automated. Detection is advisory: it never
// blocks an action by itself, the pacing controller decides what to do
// with the assessment.
package suspicion

import (
	"math"
	"strings"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/model"
)

type Detector struct {
	ledger *ledger.Ledger
	conf   config.SuspicionConfig
}

func NewDetector(l *ledger.Ledger, conf config.SuspicionConfig) *Detector {
	return &Detector{ledger: l, conf: conf}
}

// Detect computes a fresh assessment from the current ledger state.
func (d *Detector) Detect() model.SuspicionAssessment {
	stats := d.ledger.Stats()

	var patterns []model.PatternTag
	var advice []string
	if stats.ActionsLastMinute > d.conf.RapidActionsPerMinute {
		patterns = append(patterns, model.PATTERN_RAPID_ACTIONS)
		advice = append(advice, "action rate is unusually high, lengthen cooldowns before the next action")
	}
	if d.isRepetitive() {
		patterns = append(patterns, model.PATTERN_REPETITIVE_BEHAVIOR)
		advice = append(advice, "recent actions are uniform in type and timing, vary activity before continuing")
	}

	assessment := model.SuspicionAssessment{
		IsSuspicious: len(patterns) > 0,
		Patterns:     patterns,
	}
	if assessment.IsSuspicious {
		assessment.Recommendation = strings.Join(advice, "; ")
	} else {
		assessment.Recommendation = "activity is within configured limits"
	}
	return assessment
}

// isRepetitive reports whether the most recent sample of actions is
// dominated by a single type with near-identical spacing. Both
// conditions must hold: uniform type alone is normal during a batch of
// like operations, and uniform timing alone can be coincidence on a
// small sample.
func (d *Detector) isRepetitive() bool {
	sample := d.conf.RepetitiveSampleSize
	if sample < 2 {
		return false
	}
	recs := d.ledger.Query(time.Hour)
	if len(recs) < sample {
		return false
	}
	recs = recs[len(recs)-sample:]

	byType := make(map[model.ActionKind]int)
	for _, rec := range recs {
		byType[rec.Type]++
	}
	dominant := 0
	for _, n := range byType {
		if n > dominant {
			dominant = n
		}
	}
	if float64(dominant)/float64(len(recs)) < d.conf.RepetitiveTypeFraction {
		return false
	}
	cv, ok := intervalVariation(recs)
	return ok && cv < d.conf.IntervalVarianceCutoff
}

// intervalVariation returns the coefficient of variation of the gaps
// between consecutive records.
func intervalVariation(recs []model.ActionRecord) (float64, bool) {
	if len(recs) < 3 {
		return 0, false
	}
	intervals := make([]float64, 0, len(recs)-1)
	for i := 1; i < len(recs); i++ {
		intervals = append(intervals, float64(recs[i].Timestamp.Sub(recs[i-1].Timestamp).Milliseconds()))
	}
	var sum float64
	for _, v := range intervals {
		sum += v
	}
	mean := sum / float64(len(intervals))
	if mean <= 0 {
		// all actions in the same instant, maximally uniform
		return 0, true
	}
	var sq float64
	for _, v := range intervals {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(intervals)))
	return std / mean, true
}
