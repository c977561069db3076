package attention

import "sort"

// Level is the ordinal severity of a warning.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelCritical
	LevelBlocking
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	case LevelBlocking:
		return "blocking"
	default:
		return "info"
	}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "blocking":
		*l = LevelBlocking
	case "critical":
		*l = LevelCritical
	case "warning":
		*l = LevelWarning
	default:
		*l = LevelInfo
	}
	return nil
}

// WarningType names the analysis that produced a warning.
type WarningType int

const (
	WarnBudgetLimit WarningType = iota
	WarnContextSwitch
	WarnFocusFragmentation
	WarnPeakHours
	WarnDecisionFatigue
)

func (t WarningType) String() string {
	switch t {
	case WarnBudgetLimit:
		return "budget_limit"
	case WarnContextSwitch:
		return "context_switch"
	case WarnFocusFragmentation:
		return "focus_fragmentation"
	case WarnPeakHours:
		return "peak_hours"
	case WarnDecisionFatigue:
		return "decision_fatigue"
	default:
		return "budget_limit"
	}
}

func (t WarningType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *WarningType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "context_switch":
		*t = WarnContextSwitch
	case "focus_fragmentation":
		*t = WarnFocusFragmentation
	case "peak_hours":
		*t = WarnPeakHours
	case "decision_fatigue":
		*t = WarnDecisionFatigue
	default:
		*t = WarnBudgetLimit
	}
	return nil
}

// Warning is the engine's output unit. Warnings are constructed fresh per
// analysis call; the caller decides whether to persist, display, or discard
// them.
type Warning struct {
	Level         Level       `json:"level"`
	Type          WarningType `json:"type"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Suggestion    string      `json:"suggestion,omitempty"`
	Actionable    bool        `json:"actionable"`
	Severity      int         `json:"severity"` // 0-10, sort key
	AffectedItems []string    `json:"affectedItems,omitempty"`
}

// SortWarnings orders warnings by descending severity. The sort is stable so
// equal-severity warnings keep their generation order and output stays
// deterministic.
func SortWarnings(warnings []Warning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Severity > warnings[j].Severity
	})
}
