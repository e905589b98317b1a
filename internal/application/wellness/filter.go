package wellness

import (
	"sort"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/domain"
)

// eligible reports whether s is a usable reading inside the day half active at now
func eligible(s domain.RespiratorySample, now time.Time, half domain.DayHalf) bool {
	if s.Value <= 0 {
		return false
	}
	ts := s.Timestamp.In(now.Location())
	return domain.SameDay(now, ts) && domain.DayHalfOf(ts) == half
}

// SelectRespiratoryRate returns the most recent sample taken during the half
// of today that now falls in. It returns domain.ErrFilterEmpty when no sample
// qualifies. Ties on timestamp keep the first sample in input order.
func SelectRespiratoryRate(samples []domain.RespiratorySample, now time.Time) (domain.RespiratorySample, error) {
	half := domain.DayHalfOf(now)

	var (
		best  domain.RespiratorySample
		found bool
	)
	for _, s := range samples {
		if !eligible(s, now, half) {
			continue
		}
		if !found || s.Timestamp.After(best.Timestamp) {
			best = s
			found = true
		}
	}

	if !found {
		return domain.RespiratorySample{}, domain.ErrFilterEmpty
	}
	return best, nil
}

// FilterDayHalf returns every sample of the active half of today, oldest first.
func FilterDayHalf(samples []domain.RespiratorySample, now time.Time) []domain.RespiratorySample {
	half := domain.DayHalfOf(now)

	out := make([]domain.RespiratorySample, 0, len(samples))
	for _, s := range samples {
		if eligible(s, now, half) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
