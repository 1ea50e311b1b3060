package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

// Builder renders the report drafting prompts.
type Builder struct{}

// System provides strict directions and schema for JSON output.
func (Builder) System() string {
	return `You are an experienced automotive mechanic reviewing an engine sound checkup. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- issue_summary is one or two plain sentences a car owner can understand.
- estimated_cost is a positive number in US dollars for the most likely repair.
- recommended_actions is a non-empty array of short imperative phrases, no duplicates.
- Anomalies carry a timestamp in milliseconds, a severity (low, medium, high, critical) and a frequency band.
- Do not invent anomalies that are not listed.

Schema (example with empty values):
{
  "issue_summary": "<string>",
  "estimated_cost": 0,
  "recommended_actions": ["<string>"]
}`
}

type userPayload struct {
	DurationSeconds int                     `json:"duration_seconds"`
	AnomalyScore    int                     `json:"anomaly_score"`
	Status          string                  `json:"status"`
	AnomalyDetected bool                    `json:"anomaly_detected"`
	Counts          analysis.SeverityCounts `json:"counts"`
	Anomalies       []analysis.Anomaly      `json:"anomalies"`
}

// User builds a compact user message around one analysis.
func (Builder) User(a *analysis.AudioAnalysis) string {
	p := userPayload{
		DurationSeconds: a.DurationSeconds,
		AnomalyScore:    a.AnomalyScore,
		Status:          a.Status().DisplayName(),
		AnomalyDetected: a.AnomalyDetected,
		Counts:          a.Counts(),
		Anomalies:       a.Anomalies,
	}
	b, err := json.Marshal(p)
	if err != nil {
		b = []byte("{}")
	}
	return fmt.Sprintf("Draft a mechanic report for this engine recording and respond with the JSON per schema. Analysis: %s", b)
}
