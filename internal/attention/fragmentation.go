package attention

import (
	"fmt"
	"time"
)

const (
	// shortFocusMinutes is the floor below which a create block is too short
	// to reach depth.
	shortFocusMinutes = 90

	// interferenceWindowMinutes is how close a non-create item may sit to a
	// protected create block before it counts as interference.
	interferenceWindowMinutes = 30
)

// DetectFragmentation scans one day's items for short focus blocks and for
// items scheduled hard against protected create blocks. It is a pure scan
// over the items sorted by start time and returns severity-sorted warnings.
func DetectFragmentation(items []Item) []Warning {
	ordered := sortedByStart(items)
	warnings := []Warning{}

	// Short create blocks.
	for _, it := range ordered {
		if it.Type != TypeCreate {
			continue
		}
		if m := it.minutes(); m > 0 && m < shortFocusMinutes {
			warnings = append(warnings, Warning{
				Level:         LevelWarning,
				Type:          WarnFocusFragmentation,
				Title:         "Short focus block",
				Description:   fmt.Sprintf("Create block %q runs only %d minutes; depth usually needs %d or more.", itemLabel(it), m, shortFocusMinutes),
				Suggestion:    "Extend this block or batch it with adjacent create work.",
				Actionable:    true,
				Severity:      5,
				AffectedItems: affected(it.ID),
			})
		}
	}

	// Interference with protected blocks. Items are sorted by start, but
	// ends are not monotonic: a long early item can outlast a later short
	// one. The backward walk therefore bounds itself on the running maximum
	// end of the prefix, not on each item's own end.
	maxEnd := make([]time.Time, len(ordered))
	for i, it := range ordered {
		maxEnd[i] = it.End()
		if i > 0 && maxEnd[i-1].After(maxEnd[i]) {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	for i, block := range ordered {
		if block.Type != TypeCreate || block.minutes() < shortFocusMinutes {
			continue
		}
		windowStart := block.Start.Add(-interferenceWindowMinutes * minute)
		windowEnd := block.End().Add(interferenceWindowMinutes * minute)

		// Walk backward then forward from the block until items fall outside
		// the window.
		for j := i - 1; j >= 0; j-- {
			if maxEnd[j].Before(windowStart) {
				break
			}
			if ordered[j].End().Before(windowStart) {
				continue
			}
			if w, ok := interferenceWarning(block, ordered[j]); ok {
				warnings = append(warnings, w)
			}
		}
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].Start.After(windowEnd) {
				break
			}
			if w, ok := interferenceWarning(block, ordered[j]); ok {
				warnings = append(warnings, w)
			}
		}
	}

	SortWarnings(warnings)
	return warnings
}

func interferenceWarning(block, intruder Item) (Warning, bool) {
	if intruder.Type == TypeCreate || !intruder.Type.Known() {
		return Warning{}, false
	}
	return Warning{
		Level:         LevelWarning,
		Type:          WarnFocusFragmentation,
		Title:         "Focus block interference",
		Description:   fmt.Sprintf("%q is scheduled within %d minutes of the protected create block %q.", itemLabel(intruder), interferenceWindowMinutes, itemLabel(block)),
		Suggestion:    "Move this item to leave a buffer around the focus block.",
		Actionable:    true,
		Severity:      6,
		AffectedItems: affected(intruder.ID, block.ID),
	}, true
}

func itemLabel(it Item) string {
	if it.Title != "" {
		return it.Title
	}
	return it.ID
}
