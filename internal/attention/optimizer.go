package attention

import (
	"sort"
	"time"
)

// repackBuffer is the gap left between consecutive re-timed items. It stays
// under the 15 minute adjacency threshold so batched same-type items still
// count as contiguous.
const repackBuffer = 5 * time.Minute

// OptimizeForRole reorders and annotates a candidate schedule to align with
// the role's behavioral profile. The result has exactly one output item per
// input item, each a copy; the input slice and its metadata maps are never
// mutated. Items marked metadata.fixed=true keep their times and repacking
// flows around them.
//
// The pass is deterministic and idempotent: running it on its own output
// changes nothing further. An unknown role returns unmodified copies.
func OptimizeForRole(items []Item, prefs Preferences) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}

	profile := ProfileFor(prefs.Role, prefs.Zone)

	if profile.DelegationFocus.Enabled {
		for i := range out {
			if out[i].minutes() >= profile.DelegationFocus.MinMinutes {
				out[i].annotate("delegationSuggestion", true)
			}
		}
	}

	if prefs.Role == RoleUnknown {
		return out
	}

	// Re-time day by day. Days are independent; items keep their day.
	byDay := groupByDay(out)
	result := make([]Item, 0, len(out))
	for _, day := range dayKeys(byDay) {
		result = append(result, optimizeDay(byDay[day], prefs)...)
	}
	return result
}

// groupByDay buckets items by their local calendar date.
func groupByDay(items []Item) map[string][]Item {
	byDay := make(map[string][]Item)
	for _, it := range items {
		key := it.Start.Format("2006-01-02")
		byDay[key] = append(byDay[key], it)
	}
	return byDay
}

func dayKeys(byDay map[string][]Item) []string {
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// optimizeDay repacks one day's movable items into the role's preferred
// order and re-times them sequentially, skipping over fixed items.
func optimizeDay(items []Item, prefs Preferences) []Item {
	ordered := sortedByStart(items)

	var movable, fixed []Item
	for _, it := range ordered {
		if it.Fixed() {
			fixed = append(fixed, it)
		} else {
			movable = append(movable, it)
		}
	}
	if len(movable) == 0 {
		return ordered
	}

	groups := roleGroups(movable, prefs.Role)
	cursor := movable[0].Start

	repacked := make([]Item, 0, len(movable))
	for gi, group := range groups {
		if len(group) == 0 {
			continue
		}
		// Makers pull the create group (always group 0) into peak hours
		// when the whole batch fits inside the window.
		if prefs.Role == RoleMaker && gi == 0 {
			cursor = alignToPeak(cursor, group, prefs)
		}
		for _, it := range group {
			start := skipFixed(cursor, it, fixed)
			it.Start = start
			repacked = append(repacked, it)
			cursor = it.End().Add(repackBuffer)
		}
	}

	merged := append(repacked, fixed...)
	return sortedByStart(merged)
}

// roleGroups partitions movable items into the role's scheduling order,
// preserving original start order within each group.
//
//	Maker:      creates first, batched adjacently, then the rest.
//	Marker:     reviews first (review informs decision), then decides
//	            clustered back to back, then the rest.
//	Multiplier: connects first so they land before the late afternoon,
//	            then the rest.
func roleGroups(movable []Item, role Role) [][]Item {
	pick := func(match func(Type) bool) []Item {
		var g []Item
		for _, it := range movable {
			if match(it.Type) {
				g = append(g, it)
			}
		}
		return g
	}

	switch role {
	case RoleMaker:
		return [][]Item{
			pick(func(t Type) bool { return t == TypeCreate }),
			pick(func(t Type) bool { return t != TypeCreate }),
		}
	case RoleMarker:
		return [][]Item{
			pick(func(t Type) bool { return t == TypeReview }),
			pick(func(t Type) bool { return t == TypeDecide }),
			pick(func(t Type) bool { return t != TypeReview && t != TypeDecide }),
		}
	case RoleMultiplier:
		return [][]Item{
			pick(func(t Type) bool { return t == TypeConnect }),
			pick(func(t Type) bool { return t != TypeConnect }),
		}
	default:
		return [][]Item{movable}
	}
}

// alignToPeak shifts the create batch start into the peak window when the
// whole batch fits before the window closes.
func alignToPeak(cursor time.Time, creates []Item, prefs Preferences) time.Time {
	peakStart, peakEnd := prefs.peakWindow()
	cm := clockMinutes(cursor)
	if cm >= peakStart {
		return cursor
	}

	total := 0
	for _, it := range creates {
		total += it.minutes() + int(repackBuffer/time.Minute)
	}
	if peakStart+total > peakEnd {
		return cursor
	}
	return cursor.Add(time.Duration(peakStart-cm) * time.Minute)
}

// skipFixed advances the start until the item no longer overlaps a fixed
// item's interval. Fixed items are sorted by start, so one forward walk
// suffices.
func skipFixed(start time.Time, it Item, fixed []Item) time.Time {
	dur := time.Duration(it.minutes()) * time.Minute
	for _, f := range fixed {
		fEnd := f.End()
		if start.Add(dur).After(f.Start) && start.Before(fEnd) {
			start = fEnd.Add(repackBuffer)
		}
	}
	return start
}
