// Package simulated produces anomaly profiles from pseudo-random draws. It
// stands in for a real acoustic detector behind the analysis.Strategy port.
package simulated

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

const (
	maxAnomalies = 4

	bandStartMin = 1000
	bandStartMax = 8000
	bandWidthMin = 500
	bandWidthMax = 2000

	scoreSpan = 40
)

// Detector implements analysis.Strategy. Safe for concurrent use.
type Detector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Detector seeded from the wall clock.
func New() *Detector {
	seed := uint64(time.Now().UnixNano())
	return NewWithSource(rand.NewPCG(seed, seed>>17|1))
}

// NewWithSource lets callers pin the random stream, e.g. for repeatable tests.
func NewWithSource(src rand.Source) *Detector {
	return &Detector{rng: rand.New(src)}
}

// Analyze draws 1-4 anomalies over the recording, sorts them by timestamp
// and derives a score consistent with the detection flag.
func (d *Detector) Analyze(_ context.Context, durationSeconds int) (*analysis.AudioAnalysis, error) {
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("%w: got %d seconds", analysis.ErrInvalidDuration, durationSeconds)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n := 1 + d.rng.IntN(maxAnomalies)
	span := int64(durationSeconds) * 1000
	anomalies := make([]analysis.Anomaly, n)
	for i := range anomalies {
		ts := d.rng.Int64N(span)
		sev := analysis.SeverityFromDraw(d.rng.Float64())
		start := bandStartMin + d.rng.IntN(bandStartMax-bandStartMin)
		end := start + bandWidthMin + d.rng.IntN(bandWidthMax-bandWidthMin)
		anomalies[i] = analysis.Anomaly{
			TimestampMS:    ts,
			Severity:       sev,
			FrequencyRange: fmt.Sprintf("%d-%d Hz", start, end),
		}
	}
	slices.SortStableFunc(anomalies, func(a, b analysis.Anomaly) int {
		switch {
		case a.TimestampMS < b.TimestampMS:
			return -1
		case a.TimestampMS > b.TimestampMS:
			return 1
		}
		return 0
	})

	detected := slices.ContainsFunc(anomalies, func(a analysis.Anomaly) bool { return a.Severity.Serious() })
	score := int(d.rng.Float64() * scoreSpan)
	if detected {
		score += analysis.DetectionThreshold
	}

	return &analysis.AudioAnalysis{
		DurationSeconds: durationSeconds,
		AnomalyDetected: detected,
		AnomalyScore:    score,
		Anomalies:       anomalies,
	}, nil
}
