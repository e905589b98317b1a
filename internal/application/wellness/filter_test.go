package wellness

import (
	"math/rand"
	"testing"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m, s int) time.Time {
	return time.Date(2026, 10, 16, h, m, s, 0, time.UTC)
}

func sample(ts time.Time, v float64) domain.RespiratorySample {
	return domain.RespiratorySample{Timestamp: ts, Value: v}
}

func TestSelectRespiratoryRate_BeforeNoon(t *testing.T) {
	samples := []domain.RespiratorySample{
		sample(at(8, 0, 0), 14),
		sample(at(13, 0, 0), 16),
	}

	got, err := SelectRespiratoryRate(samples, at(11, 59, 59))
	require.NoError(t, err)
	assert.Equal(t, at(8, 0, 0), got.Timestamp)
	assert.Equal(t, 14.0, got.Value)
}

func TestSelectRespiratoryRate_NoonIsEvening(t *testing.T) {
	samples := []domain.RespiratorySample{
		sample(at(11, 59, 59), 13),
		sample(at(12, 0, 0), 15),
	}

	got, err := SelectRespiratoryRate(samples, at(12, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, at(12, 0, 0), got.Timestamp)
	assert.Equal(t, 15.0, got.Value)
}

func TestSelectRespiratoryRate_MorningSampleExcludedAtNoon(t *testing.T) {
	samples := []domain.RespiratorySample{
		sample(at(11, 59, 59), 13),
	}

	_, err := SelectRespiratoryRate(samples, at(12, 0, 0))
	assert.ErrorIs(t, err, domain.ErrFilterEmpty)

	got, err := SelectRespiratoryRate(samples, at(11, 59, 59))
	require.NoError(t, err)
	assert.Equal(t, 13.0, got.Value)
}

func TestSelectRespiratoryRate_LatestWins(t *testing.T) {
	samples := []domain.RespiratorySample{
		sample(at(10, 30, 0), 17),
		sample(at(9, 0, 0), 12),
	}

	got, err := SelectRespiratoryRate(samples, at(11, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, at(10, 30, 0), got.Timestamp)
	assert.Equal(t, 17.0, got.Value)
}

func TestSelectRespiratoryRate_TieKeepsFirst(t *testing.T) {
	samples := []domain.RespiratorySample{
		sample(at(9, 0, 0), 12),
		sample(at(9, 0, 0), 13),
	}

	got, err := SelectRespiratoryRate(samples, at(10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Value)
}

func TestSelectRespiratoryRate_EmptyHalf(t *testing.T) {
	samples := []domain.RespiratorySample{
		sample(at(7, 0, 0), 14),
		sample(at(11, 0, 0), 15),
	}

	got, err := SelectRespiratoryRate(samples, at(18, 0, 0))
	assert.ErrorIs(t, err, domain.ErrFilterEmpty)
	assert.Equal(t, domain.RespiratorySample{}, got)

	_, err = SelectRespiratoryRate(nil, at(18, 0, 0))
	assert.ErrorIs(t, err, domain.ErrFilterEmpty)
}

func TestSelectRespiratoryRate_SkipsNonPositiveAndOtherDays(t *testing.T) {
	samples := []domain.RespiratorySample{
		sample(at(9, 0, 0), 14),
		sample(at(10, 0, 0), -1),
		sample(at(10, 30, 0), 0),
		sample(at(11, 0, 0).AddDate(0, 0, -1), 20),
	}

	got, err := SelectRespiratoryRate(samples, at(11, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, at(9, 0, 0), got.Timestamp)
}

func TestSelectRespiratoryRate_UsesNowLocation(t *testing.T) {
	tz := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2026, 10, 16, 10, 0, 0, 0, tz)

	// 14:00 UTC is 09:00 local: morning
	samples := []domain.RespiratorySample{sample(at(14, 0, 0), 15)}

	got, err := SelectRespiratoryRate(samples, now)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Value)

	_, err = SelectRespiratoryRate(samples, now.Add(4*time.Hour))
	assert.ErrorIs(t, err, domain.ErrFilterEmpty)
}

func TestSelectRespiratoryRate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(20261016))
	day := at(0, 0, 0)

	for i := 0; i < 500; i++ {
		n := rng.Intn(20)
		samples := make([]domain.RespiratorySample, n)
		for j := range samples {
			ts := day.Add(time.Duration(rng.Int63n(int64(24 * time.Hour))))
			samples[j] = sample(ts, float64(rng.Intn(30)))
		}
		now := day.Add(time.Duration(rng.Int63n(int64(24 * time.Hour))))

		got, err := SelectRespiratoryRate(samples, now)
		again, errAgain := SelectRespiratoryRate(samples, now)
		assert.Equal(t, got, again)
		assert.Equal(t, err, errAgain)

		eligibleCount := 0
		for _, s := range samples {
			if s.Value > 0 && domain.DayHalfOf(s.Timestamp) == domain.DayHalfOf(now) {
				eligibleCount++
				if err == nil {
					assert.False(t, s.Timestamp.After(got.Timestamp), "a later eligible sample was skipped")
				}
			}
		}

		if eligibleCount == 0 {
			assert.ErrorIs(t, err, domain.ErrFilterEmpty)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, domain.DayHalfOf(now), domain.DayHalfOf(got.Timestamp))
		assert.Greater(t, got.Value, 0.0)
	}
}

func TestFilterDayHalf_SortsAndFilters(t *testing.T) {
	samples := []domain.RespiratorySample{
		sample(at(15, 0, 0), 16),
		sample(at(9, 0, 0), 12),
		sample(at(13, 0, 0), 14),
		sample(at(14, 0, 0), -2),
	}

	got := FilterDayHalf(samples, at(20, 0, 0))
	require.Len(t, got, 2)
	assert.Equal(t, at(13, 0, 0), got[0].Timestamp)
	assert.Equal(t, at(15, 0, 0), got[1].Timestamp)

	assert.Empty(t, FilterDayHalf(nil, at(20, 0, 0)))
}
