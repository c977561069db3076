package attention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRoleRequirements_EmptyIsValid(t *testing.T) {
	for _, role := range []Role{RoleMaker, RoleMarker, RoleMultiplier, RoleUnknown} {
		v := ValidateRoleRequirements(nil, Preferences{Role: role})
		assert.True(t, v.IsValid)
		assert.Empty(t, v.Violations)
	}
}

func TestValidateRoleRequirements_MakerDeepBlockScore(t *testing.T) {
	deep := ValidateRoleRequirements([]Item{
		at("c1", TypeCreate, "09:00", 150),
	}, Preferences{Role: RoleMaker})
	assert.True(t, deep.IsValid)
	assert.Greater(t, deep.FocusBlockScore, 80)

	shallow := ValidateRoleRequirements([]Item{
		at("c1", TypeCreate, "09:00", 45),
	}, Preferences{Role: RoleMaker})
	assert.True(t, shallow.IsValid, "a shallow day is suboptimal, not invalid")
	assert.Less(t, shallow.FocusBlockScore, deep.FocusBlockScore)
}

func TestValidateRoleRequirements_MarkerDecisionFatigue(t *testing.T) {
	items := make([]Item, 0, 8)
	clocks := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30"}
	for i, clock := range clocks {
		items = append(items, at("d"+string(rune('1'+i)), TypeDecide, clock, 20))
	}

	v := ValidateRoleRequirements(items, Preferences{Role: RoleMarker})
	assert.False(t, v.IsValid)
	require.Len(t, v.Violations, 1)
	assert.Contains(t, v.Violations[0], "decision fatigue")
}

func TestValidateRoleRequirements_MarkerUnderCeiling(t *testing.T) {
	items := []Item{
		at("d1", TypeDecide, "09:00", 20),
		at("d2", TypeDecide, "10:00", 20),
	}
	v := ValidateRoleRequirements(items, Preferences{Role: RoleMarker})
	assert.True(t, v.IsValid)
}

func TestValidateRoleRequirements_MultiplierCreateCeiling(t *testing.T) {
	v := ValidateRoleRequirements([]Item{
		at("c1", TypeCreate, "09:00", 180),
	}, Preferences{Role: RoleMultiplier})

	assert.False(t, v.IsValid)
	require.Len(t, v.Violations, 1)
	assert.Contains(t, v.Violations[0], "CREATE time")

	ok := ValidateRoleRequirements([]Item{
		at("c1", TypeCreate, "09:00", 90),
	}, Preferences{Role: RoleMultiplier})
	assert.True(t, ok.IsValid)
}

func TestValidateRoleRequirements_UnknownRoleHasNoHardRules(t *testing.T) {
	items := make([]Item, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, at("d"+string(rune('a'+i)), TypeDecide, "09:00", 20))
	}
	v := ValidateRoleRequirements(items, Preferences{})
	assert.True(t, v.IsValid)
}
