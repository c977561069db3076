package attention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeForRole_CountPreserved(t *testing.T) {
	items := []Item{
		at("c1", TypeCreate, "09:00", 30),
		at("x1", TypeConnect, "09:30", 15),
		{ID: "nodur", Start: at("", TypeUnknown, "10:00", 0).Start}, // missing duration and type
		at("d1", TypeDecide, "11:00", 45),
	}

	for _, role := range []Role{RoleMaker, RoleMarker, RoleMultiplier, RoleUnknown} {
		out := OptimizeForRole(items, Preferences{Role: role})
		assert.Len(t, out, len(items), "role %v", role)
	}
}

func TestOptimizeForRole_DoesNotMutateInput(t *testing.T) {
	items := []Item{
		at("c1", TypeCreate, "09:00", 90),
		at("x1", TypeConnect, "11:00", 60),
	}
	items[0].Metadata = map[string]any{"source": "calendar"}
	before := items[0].Start

	_ = OptimizeForRole(items, Preferences{Role: RoleMultiplier})

	assert.Equal(t, before, items[0].Start)
	assert.NotContains(t, items[0].Metadata, "delegationSuggestion")
}

func TestOptimizeForRole_MakerBatchesCreates(t *testing.T) {
	items := []Item{
		at("c1", TypeCreate, "09:00", 30),
		at("x1", TypeConnect, "09:30", 15),
		at("c2", TypeCreate, "09:45", 60),
	}
	prefs := Preferences{Role: RoleMaker, PeakStart: "09:00", PeakEnd: "12:00"}

	out := OptimizeForRole(items, prefs)
	require.Len(t, out, 3)

	var creates []Item
	for _, it := range out {
		if it.Type == TypeCreate {
			creates = append(creates, it)
		}
	}
	require.Len(t, creates, 2)

	gap := creates[1].Start.Sub(creates[0].End())
	assert.GreaterOrEqual(t, gap, time.Duration(0))
	assert.Less(t, gap, 15*time.Minute, "batched creates should sit nearly adjacent")

	// Both creates start inside the peak window.
	for _, c := range creates {
		m := clockMinutes(c.Start)
		assert.GreaterOrEqual(t, m, 9*60)
		assert.Less(t, m, 12*60)
	}
}

func TestOptimizeForRole_Idempotent(t *testing.T) {
	items := []Item{
		at("c1", TypeCreate, "08:10", 45),
		at("x1", TypeConnect, "09:00", 30),
		at("c2", TypeCreate, "10:00", 90),
		at("d1", TypeDecide, "13:00", 30),
	}

	for _, role := range []Role{RoleMaker, RoleMarker, RoleMultiplier} {
		prefs := Preferences{Role: role, PeakStart: "09:00", PeakEnd: "13:00"}
		once := OptimizeForRole(items, prefs)
		twice := OptimizeForRole(once, prefs)
		assert.Equal(t, once, twice, "second pass should be a no-op for role %v", role)
	}
}

func TestOptimizeForRole_MarkerReviewBeforeDecide(t *testing.T) {
	items := []Item{
		at("d1", TypeDecide, "09:00", 30),
		at("r1", TypeReview, "11:00", 30),
		at("d2", TypeDecide, "14:00", 30),
	}
	out := OptimizeForRole(items, Preferences{Role: RoleMarker})

	var review Item
	var decides []Item
	for _, it := range out {
		switch it.Type {
		case TypeReview:
			review = it
		case TypeDecide:
			decides = append(decides, it)
		}
	}
	require.Len(t, decides, 2)

	for _, d := range decides {
		assert.True(t, review.Start.Before(d.Start), "review must precede decisions")
	}

	// Decides are clustered inside a two hour window.
	span := decides[1].End().Sub(decides[0].Start)
	assert.LessOrEqual(t, span, 2*time.Hour)
}

func TestOptimizeForRole_MultiplierDelegationFlag(t *testing.T) {
	items := []Item{
		at("c1", TypeCreate, "09:00", 90),
		at("c2", TypeCreate, "11:00", 45),
	}
	out := OptimizeForRole(items, Preferences{Role: RoleMultiplier})

	byID := map[string]Item{}
	for _, it := range out {
		byID[it.ID] = it
	}

	flagged, ok := byID["c1"].Metadata["delegationSuggestion"].(bool)
	assert.True(t, ok && flagged, "90 minute item should carry a delegation suggestion")
	assert.NotContains(t, byID["c2"].Metadata, "delegationSuggestion")
}

func TestOptimizeForRole_MultiplierConnectsFirst(t *testing.T) {
	items := []Item{
		at("c1", TypeCreate, "09:00", 60),
		at("x1", TypeConnect, "17:30", 30), // after the 17:00 deadline
	}
	out := OptimizeForRole(items, Preferences{Role: RoleMultiplier})

	var connect Item
	for _, it := range out {
		if it.Type == TypeConnect {
			connect = it
		}
	}
	assert.Less(t, clockMinutes(connect.Start), 17*60, "connect time should move before 17:00")
}

func TestOptimizeForRole_FixedItemsKeepTheirSlot(t *testing.T) {
	fixed := at("f1", TypeConnect, "10:00", 60)
	fixed.Metadata = map[string]any{"fixed": true}
	items := []Item{
		at("c1", TypeCreate, "09:00", 45),
		fixed,
		at("c2", TypeCreate, "14:00", 45),
	}
	out := OptimizeForRole(items, Preferences{Role: RoleMaker, PeakStart: "09:00", PeakEnd: "12:00"})

	byID := map[string]Item{}
	for _, it := range out {
		byID[it.ID] = it
	}
	assert.Equal(t, fixed.Start, byID["f1"].Start, "fixed item must not move")

	// Movable items never overlap the fixed slot.
	for _, id := range []string{"c1", "c2"} {
		it := byID[id]
		overlaps := it.Start.Before(fixed.End()) && it.End().After(fixed.Start)
		assert.False(t, overlaps, "%s overlaps the fixed item", id)
	}
}

func TestOptimizeForRole_UnknownRoleReturnsCopies(t *testing.T) {
	items := []Item{
		at("c1", TypeCreate, "09:00", 30),
		at("x1", TypeConnect, "10:00", 30),
	}
	out := OptimizeForRole(items, Preferences{})

	require.Len(t, out, 2)
	assert.Equal(t, items[0].Start, out[0].Start)
	assert.Equal(t, items[1].Start, out[1].Start)
}

func TestOptimizeForRole_MultiDayKeepsDays(t *testing.T) {
	day2 := at("c2", TypeCreate, "09:00", 60)
	day2.Start = day2.Start.AddDate(0, 0, 1)
	items := []Item{
		at("c1", TypeCreate, "09:00", 60),
		day2,
	}
	out := OptimizeForRole(items, Preferences{Role: RoleMaker})

	require.Len(t, out, 2)
	assert.Equal(t, out[0].Start.Day()+1, out[1].Start.Day())
}

func TestOptimizeForRole_Performance500Items(t *testing.T) {
	items := make([]Item, 0, 500)
	for i := 0; i < 500; i++ {
		typ := Types[i%len(Types)]
		it := at("", typ, "08:00", 20)
		it.ID = it.Start.Format("2006-01-02") + "-" + typ.String() + "-" + string(rune('a'+i%26))
		it.Start = it.Start.Add(time.Duration(i) * 25 * time.Minute)
		items = append(items, it)
	}

	start := time.Now()
	out := OptimizeForRole(items, Preferences{Role: RoleMaker, PeakStart: "09:00", PeakEnd: "13:00"})
	elapsed := time.Since(start)

	assert.Len(t, out, 500)
	assert.Less(t, elapsed, time.Second, "optimizing 500 items took %v", elapsed)
}
