package simulated

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

func seeded(seed uint64) *Detector {
	return NewWithSource(rand.NewPCG(seed, seed+1))
}

func checkInvariants(t *testing.T, a *analysis.AudioAnalysis, duration int) {
	t.Helper()
	require.NotNil(t, a)
	assert.Equal(t, duration, a.DurationSeconds)
	assert.GreaterOrEqual(t, len(a.Anomalies), 1)
	assert.LessOrEqual(t, len(a.Anomalies), 4)
	assert.GreaterOrEqual(t, a.AnomalyScore, 0)
	assert.LessOrEqual(t, a.AnomalyScore, 99)
	assert.Equal(t, a.AnomalyDetected, a.AnomalyScore >= analysis.DetectionThreshold)

	serious := false
	for i, an := range a.Anomalies {
		assert.GreaterOrEqual(t, an.TimestampMS, int64(0))
		assert.Less(t, an.TimestampMS, int64(duration)*1000)
		if i > 0 {
			assert.LessOrEqual(t, a.Anomalies[i-1].TimestampMS, an.TimestampMS)
		}
		var start, end int
		_, err := fmt.Sscanf(an.FrequencyRange, "%d-%d Hz", &start, &end)
		require.NoError(t, err, an.FrequencyRange)
		assert.GreaterOrEqual(t, start, 1000)
		assert.Less(t, start, 8000)
		assert.GreaterOrEqual(t, end-start, 500)
		assert.Less(t, end-start, 2000)
		if an.Severity.Serious() {
			serious = true
		}
	}
	assert.Equal(t, serious, a.AnomalyDetected)
}

func TestAnalyze_InvalidDuration(t *testing.T) {
	d := seeded(1)
	for _, dur := range []int{0, -5} {
		a, err := d.Analyze(context.Background(), dur)
		assert.ErrorIs(t, err, analysis.ErrInvalidDuration)
		assert.Nil(t, a)
	}
}

func TestAnalyze_ThousandRuns(t *testing.T) {
	d := seeded(42)
	for i := 0; i < 1000; i++ {
		a, err := d.Analyze(context.Background(), 60)
		require.NoError(t, err)
		checkInvariants(t, a, 60)
	}
}

func TestAnalyze_ShortRecording(t *testing.T) {
	d := seeded(7)
	for i := 0; i < 200; i++ {
		a, err := d.Analyze(context.Background(), 1)
		require.NoError(t, err)
		checkInvariants(t, a, 1)
	}
}

func TestAnalyze_Distribution(t *testing.T) {
	d := seeded(2024)
	counts := map[analysis.Severity]int{}
	sizes := map[int]int{}
	total := 0
	detected := 0
	for i := 0; i < 20000; i++ {
		a, err := d.Analyze(context.Background(), 30)
		require.NoError(t, err)
		sizes[len(a.Anomalies)]++
		if a.AnomalyDetected {
			detected++
		}
		for _, an := range a.Anomalies {
			counts[an.Severity]++
			total++
		}
	}
	for n := 1; n <= 4; n++ {
		assert.InDelta(t, 0.25, float64(sizes[n])/20000, 0.02, "count %d", n)
	}
	assert.InDelta(t, 0.25, float64(counts[analysis.SeverityLow])/float64(total), 0.02)
	assert.InDelta(t, 0.50, float64(counts[analysis.SeverityMedium])/float64(total), 0.02)
	assert.InDelta(t, 0.20, float64(counts[analysis.SeverityHigh])/float64(total), 0.02)
	assert.InDelta(t, 0.05, float64(counts[analysis.SeverityCritical])/float64(total), 0.01)
	assert.Greater(t, detected, 0)
	assert.Less(t, detected, 20000)
}

func TestAnalyze_SameSeedSameResult(t *testing.T) {
	first, second := seeded(99), seeded(99)
	for i := 0; i < 20; i++ {
		a, err := first.Analyze(context.Background(), 45)
		require.NoError(t, err)
		b, err := second.Analyze(context.Background(), 45)
		require.NoError(t, err)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("run %d differs (-first +second):\n%s", i, diff)
		}
	}
}

func TestAnalyze_Concurrent(t *testing.T) {
	d := New()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				a, err := d.Analyze(context.Background(), 10)
				if assert.NoError(t, err) {
					assert.Equal(t, a.AnomalyDetected, a.AnomalyScore >= 60)
				}
			}
		}()
	}
	wg.Wait()
}
