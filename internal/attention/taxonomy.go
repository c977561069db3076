package attention

// Base daily budgets in minutes, applied when a user has not set an explicit
// budget for a type.
var baseBudgets = map[Type]int{
	TypeCreate:  240,
	TypeDecide:  120,
	TypeConnect: 180,
	TypeReview:  120,
	TypeRecover: 60,
}

// BudgetFor returns the daily minute allowance for a type: the user's
// explicit budget when present, otherwise the base default adjusted for the
// role (Makers get more create time, Multipliers more connect time).
// Unknown types have no budget and return 0.
func BudgetFor(t Type, prefs Preferences) int {
	if !t.Known() {
		return 0
	}
	if b, ok := prefs.Budgets[t]; ok && b >= 0 {
		return b
	}
	switch {
	case prefs.Role == RoleMaker && t == TypeCreate:
		return 360
	case prefs.Role == RoleMultiplier && t == TypeConnect:
		return 240
	}
	return baseBudgets[t]
}

// FocusProtection describes how aggressively a role guards long create
// blocks.
type FocusProtection struct {
	Enabled         bool
	MinBlockMinutes int // shortest create block considered protected
}

// DelegationFocus describes when the optimizer should flag an item as a
// delegation candidate.
type DelegationFocus struct {
	Enabled    bool
	MinMinutes int // shortest duration worth suggesting for delegation
}

// Profile is a role's behavior descriptor after zone adjustment.
type Profile struct {
	Role            Role
	FocusProtection FocusProtection
	SwitchTolerance int // switches tolerated per day before penalizing
	DelegationFocus DelegationFocus

	// DecideItemCeiling and CreateBlockCeiling back the role requirement
	// checks: Markers cap the number of decisions per day, Multipliers cap
	// the length of a single create block. Zero means no ceiling.
	DecideItemCeiling  int
	CreateBlockCeiling int
}

// ProfileFor returns the behavior profile for a role under a zone. An
// unrecognized role yields a neutral profile with a positive switch
// tolerance; it never panics or errors.
func ProfileFor(role Role, zone Zone) Profile {
	var p Profile
	switch role {
	case RoleMaker:
		p = Profile{
			Role:            RoleMaker,
			FocusProtection: FocusProtection{Enabled: true, MinBlockMinutes: 90},
			SwitchTolerance: 3,
		}
	case RoleMarker:
		p = Profile{
			Role:              RoleMarker,
			FocusProtection:   FocusProtection{Enabled: false, MinBlockMinutes: 90},
			SwitchTolerance:   6,
			DecideItemCeiling: 6,
		}
	case RoleMultiplier:
		p = Profile{
			Role:               RoleMultiplier,
			FocusProtection:    FocusProtection{Enabled: false, MinBlockMinutes: 90},
			SwitchTolerance:    8,
			DelegationFocus:    DelegationFocus{Enabled: true, MinMinutes: 60},
			CreateBlockCeiling: 120,
		}
	default:
		p = Profile{
			Role:            RoleUnknown,
			FocusProtection: FocusProtection{Enabled: false, MinBlockMinutes: 90},
			SwitchTolerance: 5,
		}
	}

	switch zone {
	case ZoneWartime:
		// Crisis mode: half the switch tolerance, half again longer focus
		// blocks.
		p.SwitchTolerance = maxInt(1, p.SwitchTolerance/2)
		p.FocusProtection.MinBlockMinutes = p.FocusProtection.MinBlockMinutes * 3 / 2
	case ZonePeacetime:
		p.SwitchTolerance = p.SwitchTolerance * 3 / 2
	}
	return p
}

// SwitchBudget returns the number of context switches tolerated for the day.
// An explicit user limit wins over the role tolerance.
func SwitchBudget(prefs Preferences) int {
	if prefs.SwitchLimit > 0 {
		return prefs.SwitchLimit
	}
	return ProfileFor(prefs.Role, prefs.Zone).SwitchTolerance
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
