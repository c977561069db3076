package attention

import (
	"sort"
	"time"
)

const minute = time.Minute

// Item is a scheduled unit of work or rest. The engine reads snapshots of
// items and returns analysis or annotated copies; it never creates, deletes,
// or persists them.
type Item struct {
	ID       string         `json:"id"`
	Start    time.Time      `json:"start_time"`
	Duration int            `json:"duration_minutes"` // minutes; missing decodes to 0
	Type     Type           `json:"attention_type,omitempty"`
	Title    string         `json:"title,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// End returns the instant the item finishes.
func (it Item) End() time.Time {
	return it.Start.Add(time.Duration(it.minutes()) * time.Minute)
}

// minutes normalizes the duration: negative values count as 0.
func (it Item) minutes() int {
	if it.Duration < 0 {
		return 0
	}
	return it.Duration
}

// Fixed reports whether the item's position is non-negotiable. The optimizer
// never re-times fixed items.
func (it Item) Fixed() bool {
	fixed, ok := it.Metadata["fixed"].(bool)
	return ok && fixed
}

// clone returns a copy with its own metadata map, so annotations written by
// the optimizer never leak into the caller's snapshot.
func (it Item) clone() Item {
	out := it
	if it.Metadata != nil {
		out.Metadata = make(map[string]any, len(it.Metadata)+1)
		for k, v := range it.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// annotate writes a metadata entry, allocating the map on first use.
func (it *Item) annotate(key string, value any) {
	if it.Metadata == nil {
		it.Metadata = make(map[string]any, 1)
	}
	it.Metadata[key] = value
}

// sortedByStart returns a copy of items ordered by start time. Ties keep the
// input order so analysis stays deterministic.
func sortedByStart(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// gapMinutes returns the whole minutes between the end of a and the start of
// b, floored at zero for overlapping items.
func gapMinutes(a, b Item) int {
	gap := int(b.Start.Sub(a.End()) / time.Minute)
	if gap < 0 {
		return 0
	}
	return gap
}

// Preferences is the per-user configuration for one analysis call. A zero
// value is valid and triggers full-default behavior: unknown role, neutral
// zone, default peak hours, role-adjusted default budgets.
type Preferences struct {
	Role        Role         `json:"current_role,omitempty"`
	Zone        Zone         `json:"current_zone,omitempty"`
	PeakStart   string       `json:"peak_hours_start,omitempty"` // "HH:MM" local time
	PeakEnd     string       `json:"peak_hours_end,omitempty"`   // "HH:MM" local time
	Budgets     map[Type]int `json:"attention_budgets,omitempty"`
	SwitchLimit int          `json:"context_switch_limit,omitempty"` // 0 = use role tolerance
}

// defaultPeakStart/End are used when preferences carry no parsable window.
const (
	defaultPeakStart = 9 * 60
	defaultPeakEnd   = 12 * 60
)

// peakWindow returns the preferred high-attention window as minutes since
// midnight, [start, end). Unparsable or inverted windows fall back to the
// default morning window.
func (p Preferences) peakWindow() (start, end int) {
	start, okS := parseClock(p.PeakStart)
	end, okE := parseClock(p.PeakEnd)
	if !okS || !okE || start >= end {
		return defaultPeakStart, defaultPeakEnd
	}
	return start, end
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' ||
		s[3] < '0' || s[3] > '9' || s[4] < '0' || s[4] > '9' {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// clockMinutes returns t as minutes since local midnight.
func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
