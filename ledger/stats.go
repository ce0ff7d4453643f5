package ledger

import (
	"time"

	"github.com/mohitgarg/socialflow/model"
)

// Stats derives ActivityStats from the current ledger contents. It is
// always recomputed; nothing here is cached or persisted.
func (l *Ledger) Stats() model.ActivityStats {
	recs := l.Query(0)
	now := l.now()

	stats := model.ActivityStats{
		TotalActions:  len(recs),
		ActionsByType: make(map[model.ActionKind]int),
	}
	minuteAgo := now.Add(-time.Minute)
	hourAgo := now.Add(-time.Hour)
	var lastHour []model.ActionRecord
	for _, rec := range recs {
		stats.ActionsByType[rec.Type]++
		if !rec.Timestamp.Before(minuteAgo) {
			stats.ActionsLastMinute++
		}
		if !rec.Timestamp.Before(hourAgo) {
			stats.ActionsLastHour++
			lastHour = append(lastHour, rec)
		}
	}
	stats.AverageActionIntervalMs = averageIntervalMs(lastHour)
	return stats
}

// averageIntervalMs is the mean gap between consecutive records.
func averageIntervalMs(recs []model.ActionRecord) float64 {
	if len(recs) < 2 {
		return 0
	}
	var total time.Duration
	for i := 1; i < len(recs); i++ {
		total += recs[i].Timestamp.Sub(recs[i-1].Timestamp)
	}
	return float64(total.Milliseconds()) / float64(len(recs)-1)
}
