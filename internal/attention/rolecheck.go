package attention

import "fmt"

// makerDeepBlockMinutes is the create-block length a Maker's day should
// contain at least once.
const makerDeepBlockMinutes = 120

// RoleValidation is the result of checking a schedule against a role's hard
// rules. FocusBlockScore grades the day's best create block on a 0-100
// scale; violations carry human-readable messages.
type RoleValidation struct {
	IsValid         bool     `json:"isValid"`
	FocusBlockScore int      `json:"focusBlockScore"`
	Violations      []string `json:"violations"`
}

// ValidateRoleRequirements checks role-specific hard rules without mutating
// anything. An empty item list is always valid with zero violations.
func ValidateRoleRequirements(items []Item, prefs Preferences) RoleValidation {
	v := RoleValidation{
		IsValid:    true,
		Violations: []string{},
	}
	if len(items) == 0 {
		v.FocusBlockScore = 100
		return v
	}

	longestCreate := 0
	decideCount := 0
	for _, it := range items {
		switch it.Type {
		case TypeCreate:
			longestCreate = maxInt(longestCreate, it.minutes())
		case TypeDecide:
			decideCount++
		}
	}

	v.FocusBlockScore = focusBlockScore(longestCreate)
	profile := ProfileFor(prefs.Role, prefs.Zone)

	switch prefs.Role {
	case RoleMarker:
		if profile.DecideItemCeiling > 0 && decideCount > profile.DecideItemCeiling {
			v.IsValid = false
			v.Violations = append(v.Violations, fmt.Sprintf(
				"%d decide items in one day invites decision fatigue (limit %d)",
				decideCount, profile.DecideItemCeiling))
		}
	case RoleMultiplier:
		if profile.CreateBlockCeiling > 0 && longestCreate > profile.CreateBlockCeiling {
			v.IsValid = false
			v.Violations = append(v.Violations, fmt.Sprintf(
				"a %d minute block of CREATE time is too long for a multiplier (limit %d); delegate or split it",
				longestCreate, profile.CreateBlockCeiling))
		}
	}

	return v
}

// focusBlockScore grades the longest create block: a full deep-work block
// scores above 80, shorter blocks score proportionally, none at all scores
// zero. A short day never invalidates the schedule on its own, it only
// lowers the score.
func focusBlockScore(longestCreate int) int {
	if longestCreate >= makerDeepBlockMinutes {
		return 90
	}
	return longestCreate * 80 / makerDeepBlockMinutes
}
