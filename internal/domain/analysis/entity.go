package analysis

import (
	"time"
)

// AnalysisID identifier type
type AnalysisID string

// Severity per-anomaly
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Serious reports whether the severity counts towards anomaly detection.
func (s Severity) Serious() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// SeverityFromDraw maps a uniform [0,1) draw onto the per-anomaly
// severity distribution: 25% low, 50% medium, 20% high, 5% critical.
func SeverityFromDraw(r float64) Severity {
	switch {
	case r < 0.25:
		return SeverityLow
	case r < 0.75:
		return SeverityMedium
	case r < 0.95:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// DetectionThreshold is the lowest score an analysis with a serious anomaly can carry.
const DetectionThreshold = 60

// Anomaly value object
type Anomaly struct {
	TimestampMS    int64    `json:"timestamp_ms"`
	Severity       Severity `json:"severity"`
	FrequencyRange string   `json:"frequency_range"`
}

// SeverityCounts value object
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// Add counts one anomaly of the given severity.
func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	}
	c.Total++
}

// Aggregate Root: AudioAnalysis. Created once when a recording session ends,
// never mutated afterwards.
type AudioAnalysis struct {
	ID              AnalysisID `json:"id"`
	VehicleID       string     `json:"vehicle_id"`
	AudioFileURL    string     `json:"audio_file_url,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	AnomalyDetected bool       `json:"anomaly_detected"`
	AnomalyScore    int        `json:"anomaly_score"`
	Anomalies       []Anomaly  `json:"anomalies"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Counts tallies the anomalies by severity.
func (a *AudioAnalysis) Counts() SeverityCounts {
	var c SeverityCounts
	for _, an := range a.Anomalies {
		c.Add(an.Severity)
	}
	return c
}

// Status is the aggregate label derived from the score.
func (a *AudioAnalysis) Status() Label {
	return Classify(a.AnomalyScore)
}

// Order of list results
type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

// ParseOrder accepts "newest", "oldest" or empty (newest).
func ParseOrder(s string) (Order, bool) {
	switch s {
	case "", "newest", "desc":
		return NewestFirst, true
	case "oldest", "asc":
		return OldestFirst, true
	}
	return NewestFirst, false
}

// ListQuery controls ordering and paging of FindByVehicle.
type ListQuery struct {
	Order  Order
	Limit  int
	Offset int
}

// Normalize applies the default page size.
func (q ListQuery) Normalize() ListQuery {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}
