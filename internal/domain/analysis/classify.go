package analysis

import (
	"fmt"
	"strings"
)

// Label is the aggregate health status shown for an anomaly score. It uses
// different boundaries than the per-anomaly Severity and must not be mixed with it.
type Label int

const (
	LabelLow Label = iota
	LabelMedium
	LabelHigh
	LabelCritical
)

// Labels in ascending order.
var Labels = []Label{LabelLow, LabelMedium, LabelHigh, LabelCritical}

// Classify bands a score: 0-20 low, 21-50 medium, 51-80 high, 81-100 critical.
// Scores outside [0,100] are clamped.
func Classify(score int) Label {
	switch {
	case score <= 20:
		return LabelLow
	case score <= 50:
		return LabelMedium
	case score <= 80:
		return LabelHigh
	default:
		return LabelCritical
	}
}

func (l Label) String() string {
	switch l {
	case LabelLow:
		return "low"
	case LabelMedium:
		return "medium"
	case LabelHigh:
		return "high"
	case LabelCritical:
		return "critical"
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// DisplayName is the user facing status text.
func (l Label) DisplayName() string {
	switch l {
	case LabelLow:
		return "Healthy"
	case LabelMedium:
		return "Minor Issues"
	case LabelHigh:
		return "Issues Found"
	case LabelCritical:
		return "Critical"
	}
	return "Unknown"
}

// ParseLabel accepts the lowercase label name or its display name.
func ParseLabel(s string) (Label, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, l := range Labels {
		if v == l.String() || v == strings.ToLower(l.DisplayName()) {
			return l, nil
		}
	}
	return LabelLow, fmt.Errorf("unknown severity label %q", s)
}

func (l Label) MarshalText() ([]byte, error) {
	if l < LabelLow || l > LabelCritical {
		return nil, fmt.Errorf("invalid label %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	v, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
