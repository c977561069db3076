package attention

import (
	"fmt"
	"time"
)

// ValidateNewEvent inspects one proposed item against the existing day's
// schedule and returns a severity-sorted list of warnings. Nothing is
// persisted; the caller decides whether the item commits.
//
// In order, the checks are: budget headroom for the proposed item's type,
// context-switch cost against its immediate neighbors, focus fragmentation
// involving the proposed item, peak-hours placement, and (for Markers)
// decision fatigue.
func ValidateNewEvent(proposed Item, existing []Item, prefs Preferences, day time.Time) []Warning {
	_ = day // the snapshot is already filtered to the target day

	warnings := []Warning{}

	// Budget headroom.
	if proposed.Type.Known() {
		budget := BudgetFor(proposed.Type, prefs)
		if budget > 0 {
			used := usageByType(existing)[proposed.Type]
			projected := used + proposed.minutes()
			pct := float64(projected) / float64(budget) * 100
			switch {
			case pct >= blockingUsagePct:
				warnings = append(warnings, budgetWarning(proposed.Type, projected, budget, pct, LevelBlocking, 10))
			case pct >= exceededUsagePct:
				warnings = append(warnings, budgetWarning(proposed.Type, projected, budget, pct, LevelCritical, 8))
			case pct >= approachingUsagePct:
				warnings = append(warnings, budgetWarning(proposed.Type, projected, budget, pct, LevelWarning, 6))
			}
		}
	}

	// Context-switch cost against the neighbors the item would land
	// between.
	warnings = append(warnings, neighborSwitchWarnings(proposed, existing)...)

	// Fragmentation introduced by the proposed item.
	if proposed.Type.Known() {
		combined := make([]Item, 0, len(existing)+1)
		combined = append(combined, existing...)
		combined = append(combined, proposed)
		for _, w := range DetectFragmentation(combined) {
			if involves(w, proposed.ID) {
				warnings = append(warnings, w)
			}
		}
	}

	// Peak-hours placement.
	if proposed.Type.HighAttention() {
		start, end := prefs.peakWindow()
		if m := clockMinutes(proposed.Start); m < start || m >= end {
			warnings = append(warnings, Warning{
				Level:         LevelInfo,
				Type:          WarnPeakHours,
				Title:         "High-attention work outside peak hours",
				Description:   fmt.Sprintf("%q would start outside your peak window.", itemLabel(proposed)),
				Suggestion:    "Schedule this during your peak hours instead.",
				Actionable:    true,
				Severity:      4,
				AffectedItems: affected(proposed.ID),
			})
		}
	}

	// Marker decision fatigue, including the proposed minutes.
	if prefs.Role == RoleMarker && proposed.Type == TypeDecide {
		total := usageByType(existing)[TypeDecide] + proposed.minutes()
		if total > decisionFatigueMinutes {
			warnings = append(warnings, decisionFatigueWarning(total, affected(proposed.ID)))
		}
	}

	SortWarnings(warnings)
	return warnings
}

// neighborSwitchWarnings computes the switch cost between the proposed item
// and the typed items immediately before and after its slot.
func neighborSwitchWarnings(proposed Item, existing []Item) []Warning {
	if !proposed.Type.Known() {
		return nil
	}

	ordered := sortedByStart(existing)
	var prev, next *Item
	for i := range ordered {
		it := &ordered[i]
		if !it.Type.Known() {
			continue
		}
		if !it.Start.After(proposed.Start) {
			prev = it
		} else if next == nil {
			next = it
		}
	}

	var warnings []Warning
	if prev != nil && prev.Type != proposed.Type {
		gap := gapMinutes(*prev, proposed)
		if cost := SwitchCost(prev.Type, proposed.Type, gap); cost >= 7 {
			warnings = append(warnings, switchWarning(SwitchPoint{
				From: prev.Type, To: proposed.Type,
				FromItemID: prev.ID, ToItemID: proposed.ID,
				GapMinutes: gap, Cost: cost,
			}))
		}
	}
	if next != nil && next.Type != proposed.Type {
		gap := gapMinutes(proposed, *next)
		if cost := SwitchCost(proposed.Type, next.Type, gap); cost >= 7 {
			warnings = append(warnings, switchWarning(SwitchPoint{
				From: proposed.Type, To: next.Type,
				FromItemID: proposed.ID, ToItemID: next.ID,
				GapMinutes: gap, Cost: cost,
			}))
		}
	}
	return warnings
}

func involves(w Warning, id string) bool {
	if id == "" {
		return false
	}
	for _, itemID := range w.AffectedItems {
		if itemID == id {
			return true
		}
	}
	return false
}
