package attention

import (
	"fmt"
	"math"
	"time"
)

// Usage percentage bands for budget reporting. Only the exceeded bands count
// as violations; the approaching band is advisory and appears in warnings
// only.
const (
	blockingUsagePct    = 120
	exceededUsagePct    = 100
	approachingUsagePct = 85
)

// decisionFatigueMinutes is the daily decide-minute ceiling for Markers
// before a decision-fatigue warning is raised.
const decisionFatigueMinutes = 180

// BudgetViolation records one attention type scheduled over its daily budget.
type BudgetViolation struct {
	Type         Type    `json:"attentionType"`
	UsagePercent float64 `json:"usagePercentage"`
	Severity     Level   `json:"severity"`
}

// SwitchPoint is one transition between differently typed adjacent items.
type SwitchPoint struct {
	From       Type    `json:"fromType"`
	To         Type    `json:"toType"`
	FromItemID string  `json:"fromItemId,omitempty"`
	ToItemID   string  `json:"toItemId,omitempty"`
	GapMinutes int     `json:"gapMinutes"`
	Cost       float64 `json:"cost"`
}

// SwitchAnalysis aggregates the day's context switches.
type SwitchAnalysis struct {
	TotalSwitches int           `json:"totalSwitches"`
	Points        []SwitchPoint `json:"switchPoints"`
	CostScore     float64       `json:"costScore"`
	Severity      string        `json:"severity"` // optimal, elevated, overloaded
	BudgetLimit   int           `json:"budgetLimit"`
}

// PeakHoursAnalysis reports how well high-attention work lands inside the
// preferred window.
type PeakHoursAnalysis struct {
	HighAttentionInPeakPct float64  `json:"highAttentionInPeakHours"`
	MisplacedItems         []string `json:"misplacedItems,omitempty"`
	OptimizationScore      int      `json:"optimizationScore"` // 0-100
}

// BudgetAnalysis is the aggregate result of analyzing a full day.
type BudgetAnalysis struct {
	Violations   []BudgetViolation `json:"budgetViolations"`
	Switches     SwitchAnalysis    `json:"contextSwitchAnalysis"`
	PeakHours    PeakHoursAnalysis `json:"peakHoursAnalysis"`
	Warnings     []Warning         `json:"warnings"`
	OverallScore int               `json:"overallScore"` // 100 = healthy
}

// AnalyzeBudget aggregates one day of items into per-type usage against
// role- and zone-adjusted budgets, walks the schedule for context switches,
// scores peak-hour alignment, and emits severity-sorted warnings.
//
// An empty item list returns the healthy baseline: no violations, no
// switches, score 100. Items without an attention type are skipped in every
// type-specific computation but never cause an error.
func AnalyzeBudget(items []Item, prefs Preferences, day time.Time) BudgetAnalysis {
	_ = day // the caller has already filtered to a single day's snapshot

	analysis := BudgetAnalysis{
		Violations: []BudgetViolation{},
		Warnings:   []Warning{},
	}

	ordered := sortedByStart(items)
	usage := usageByType(ordered)

	// Budget violations and approaching-limit advisories.
	for _, t := range Types {
		minutes := usage[t]
		budget := BudgetFor(t, prefs)
		if minutes == 0 || budget <= 0 {
			continue
		}
		pct := float64(minutes) / float64(budget) * 100

		switch {
		case pct >= blockingUsagePct:
			analysis.Violations = append(analysis.Violations, BudgetViolation{
				Type: t, UsagePercent: pct, Severity: LevelBlocking,
			})
			analysis.Warnings = append(analysis.Warnings, budgetWarning(t, minutes, budget, pct, LevelBlocking, 10))
		case pct >= exceededUsagePct:
			analysis.Violations = append(analysis.Violations, BudgetViolation{
				Type: t, UsagePercent: pct, Severity: LevelCritical,
			})
			analysis.Warnings = append(analysis.Warnings, budgetWarning(t, minutes, budget, pct, LevelCritical, 8))
		case pct >= approachingUsagePct:
			// Advisory only: not a violation until the budget is actually
			// exceeded.
			analysis.Warnings = append(analysis.Warnings, budgetWarning(t, minutes, budget, pct, LevelWarning, 6))
		}
	}

	// Context switches.
	analysis.Switches = analyzeSwitches(ordered, prefs)
	for _, p := range analysis.Switches.Points {
		if p.Cost >= 7 {
			analysis.Warnings = append(analysis.Warnings, switchWarning(p))
		}
	}

	// Peak hours.
	analysis.PeakHours = analyzePeakHours(ordered, prefs)
	analysis.Warnings = append(analysis.Warnings, peakHoursWarnings(ordered, prefs, analysis.PeakHours)...)

	// Role-specific decision fatigue.
	if prefs.Role == RoleMarker && usage[TypeDecide] > decisionFatigueMinutes {
		analysis.Warnings = append(analysis.Warnings, decisionFatigueWarning(usage[TypeDecide], decideItemIDs(ordered)))
	}

	SortWarnings(analysis.Warnings)
	analysis.OverallScore = overallScore(analysis.Violations, analysis.Switches.CostScore)
	return analysis
}

// usageByType sums normalized durations per attention type. Untyped items
// are excluded.
func usageByType(items []Item) map[Type]int {
	usage := make(map[Type]int, len(Types))
	for _, it := range items {
		if it.Type.Known() {
			usage[it.Type] += it.minutes()
		}
	}
	return usage
}

// analyzeSwitches walks items in start order and records a switch point for
// each adjacent pair of differing types. Untyped items do not break
// adjacency: the switch is computed between their typed neighbors.
func analyzeSwitches(ordered []Item, prefs Preferences) SwitchAnalysis {
	sa := SwitchAnalysis{
		Points:      []SwitchPoint{},
		BudgetLimit: SwitchBudget(prefs),
	}

	var prev *Item
	for i := range ordered {
		it := &ordered[i]
		if !it.Type.Known() {
			continue
		}
		if prev != nil && prev.Type != it.Type {
			gap := gapMinutes(*prev, *it)
			sa.Points = append(sa.Points, SwitchPoint{
				From:       prev.Type,
				To:         it.Type,
				FromItemID: prev.ID,
				ToItemID:   it.ID,
				GapMinutes: gap,
				Cost:       SwitchCost(prev.Type, it.Type, gap),
			})
		}
		prev = it
	}

	sa.TotalSwitches = len(sa.Points)
	for _, p := range sa.Points {
		sa.CostScore += p.Cost
	}

	switch {
	case sa.TotalSwitches <= sa.BudgetLimit && sa.CostScore < 7:
		sa.Severity = "optimal"
	case sa.TotalSwitches <= sa.BudgetLimit*2 && sa.CostScore < 20:
		sa.Severity = "elevated"
	default:
		sa.Severity = "overloaded"
	}
	return sa
}

// analyzePeakHours measures what share of high-attention items start inside
// the preferred window. A day with no high-attention work is fully aligned.
func analyzePeakHours(ordered []Item, prefs Preferences) PeakHoursAnalysis {
	start, end := prefs.peakWindow()

	var total, inPeak int
	var misplaced []string
	for _, it := range ordered {
		if !it.Type.HighAttention() {
			continue
		}
		total++
		m := clockMinutes(it.Start)
		if m >= start && m < end {
			inPeak++
		} else {
			misplaced = append(misplaced, it.ID)
		}
	}

	if total == 0 {
		return PeakHoursAnalysis{HighAttentionInPeakPct: 100, OptimizationScore: 100}
	}
	pct := float64(inPeak) / float64(total) * 100
	return PeakHoursAnalysis{
		HighAttentionInPeakPct: pct,
		MisplacedItems:         misplaced,
		OptimizationScore:      int(math.Round(pct)),
	}
}

// peakHoursWarnings emits the advisory signals for misaligned days: one for
// high-attention work outside the window, and one when low-attention items
// occupy the window those misplaced items should have had.
func peakHoursWarnings(ordered []Item, prefs Preferences, peak PeakHoursAnalysis) []Warning {
	if len(peak.MisplacedItems) == 0 {
		return nil
	}

	warnings := []Warning{{
		Level:         LevelInfo,
		Type:          WarnPeakHours,
		Title:         "High-attention work outside peak hours",
		Description:   fmt.Sprintf("%d high-attention item(s) start outside your peak window.", len(peak.MisplacedItems)),
		Suggestion:    "Move create and decide work into your peak hours.",
		Actionable:    true,
		Severity:      4,
		AffectedItems: peak.MisplacedItems,
	}}

	start, end := prefs.peakWindow()
	var occupying []string
	for _, it := range ordered {
		if it.Type.Known() && !it.Type.HighAttention() {
			m := clockMinutes(it.Start)
			if m >= start && m < end {
				occupying = append(occupying, it.ID)
			}
		}
	}
	if len(occupying) > 0 {
		warnings = append(warnings, Warning{
			Level:         LevelInfo,
			Type:          WarnPeakHours,
			Title:         "Peak hours underused",
			Description:   fmt.Sprintf("%d low-attention item(s) occupy peak hours while high-attention work sits outside.", len(occupying)),
			Suggestion:    "Swap low-attention items out of the peak window.",
			Actionable:    true,
			Severity:      3,
			AffectedItems: occupying,
		})
	}
	return warnings
}

func budgetWarning(t Type, minutes, budget int, pct float64, level Level, severity int) Warning {
	w := Warning{
		Level:      level,
		Type:       WarnBudgetLimit,
		Severity:   severity,
		Actionable: true,
	}
	switch level {
	case LevelWarning:
		w.Title = fmt.Sprintf("Approaching %s budget", t)
		w.Description = fmt.Sprintf("%d of %d %s minutes scheduled (%.0f%%).", minutes, budget, t, pct)
		w.Suggestion = fmt.Sprintf("Leave headroom before adding more %s work.", t)
	default:
		w.Title = fmt.Sprintf("%s budget exceeded", titleCase(t.String()))
		w.Description = fmt.Sprintf("%d %s minutes scheduled against a %d minute budget (%.0f%%).", minutes, t, budget, pct)
		w.Suggestion = fmt.Sprintf("Remove or reschedule %s items to get back under budget.", t)
	}
	return w
}

func switchWarning(p SwitchPoint) Warning {
	return Warning{
		Level:         LevelCritical,
		Type:          WarnContextSwitch,
		Title:         "Costly context switch",
		Description:   fmt.Sprintf("Switching from %s to %s after a %d minute gap costs %.1f.", p.From, p.To, p.GapMinutes, p.Cost),
		Suggestion:    "Add recovery time between these items or batch similar work.",
		Actionable:    true,
		Severity:      int(math.Round(p.Cost)),
		AffectedItems: affected(p.FromItemID, p.ToItemID),
	}
}

func decisionFatigueWarning(decideMinutes int, ids []string) Warning {
	return Warning{
		Level:         LevelWarning,
		Type:          WarnDecisionFatigue,
		Title:         "Decision fatigue risk",
		Description:   fmt.Sprintf("%d decide minutes scheduled today, above the %d minute threshold.", decideMinutes, decisionFatigueMinutes),
		Suggestion:    "Cluster decisions earlier in the day or defer the less urgent ones.",
		Actionable:    true,
		Severity:      7,
		AffectedItems: ids,
	}
}

func decideItemIDs(ordered []Item) []string {
	var ids []string
	for _, it := range ordered {
		if it.Type == TypeDecide {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// overallScore composes the 0-100 health score from violation severity and
// aggregate switch cost. An empty or violation-free, switch-free day scores
// 100.
func overallScore(violations []BudgetViolation, costScore float64) int {
	score := 100
	for _, v := range violations {
		if v.Severity == LevelBlocking {
			score -= 20
		} else {
			score -= 10
		}
	}
	score -= minInt(30, int(math.Round(costScore)))
	if score < 0 {
		return 0
	}
	return score
}

func affected(ids ...string) []string {
	var out []string
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
