package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	"github.com/bryanwahyu/engine-checkup/internal/domain/reports"
)

// baseline repair estimate per status label, in dollars
var baseCost = map[analysis.Label]float64{
	analysis.LabelLow:      0,
	analysis.LabelMedium:   150,
	analysis.LabelHigh:     450,
	analysis.LabelCritical: 1200,
}

// Suggest drafts a report locally from the anomaly list. Used when no AI
// provider is configured.
func Suggest(a *analysis.AudioAnalysis) reports.Draft {
	c := a.Counts()
	label := a.Status()

	var actions []string
	add := func(s string) {
		for _, x := range actions {
			if x == s {
				return
			}
		}
		actions = append(actions, s)
	}

	if c.Critical > 0 {
		add("Stop driving and have the vehicle towed to a mechanic")
	}
	if c.High > 0 {
		add("Schedule an inspection within the next week")
	}

	lowBand, highBand := -1, -1
	for _, an := range a.Anomalies {
		var start, end int
		if _, err := fmt.Sscanf(an.FrequencyRange, "%d-%d Hz", &start, &end); err != nil {
			continue
		}
		if lowBand < 0 || start < lowBand {
			lowBand = start
		}
		if end > highBand {
			highBand = end
		}
		if !an.Severity.Serious() {
			continue
		}
		switch {
		case start < 2500:
			add("Inspect engine mounts and exhaust system")
		case start < 5000:
			add("Check drive belts, tensioner and pulleys")
		default:
			add("Inspect alternator and accessory bearings")
		}
	}
	if len(actions) == 0 {
		add("Record another checkup in 30 days")
	}

	var parts []string
	for _, p := range []struct {
		n    int
		name string
	}{{c.Critical, "critical"}, {c.High, "high"}, {c.Medium, "medium"}, {c.Low, "low"}} {
		if p.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", p.n, p.name))
		}
	}
	summary := fmt.Sprintf("%s: %d irregular sound(s) detected (%s)", label.DisplayName(), c.Total, strings.Join(parts, ", "))
	if lowBand >= 0 {
		summary += fmt.Sprintf(" between %d and %d Hz", lowBand, highBand)
	}
	summary += "."

	return reports.Draft{
		IssueSummary:       summary,
		EstimatedCost:      baseCost[label],
		RecommendedActions: actions,
	}
}
