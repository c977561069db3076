// Package attention implements the attention budget engine: it classifies a
// day of timeline items against per-type time budgets, models the cognitive
// cost of context switches, detects focus fragmentation, optimizes schedules
// for a working-style role, and validates proposed events before they commit.
//
// Every exported function in this package is a pure, synchronous computation
// over an in-memory snapshot. Nothing here performs I/O, holds locks between
// calls, or mutates its inputs. Malformed data (missing durations, unknown
// attention types or roles) is normalized rather than rejected, so the engine
// is safe to call unconditionally from request hot paths.
package attention

import (
	"fmt"
	"strings"
)

// Type classifies the cognitive mode of a scheduled block.
type Type int

const (
	// TypeUnknown marks items without a classification. They are excluded
	// from type-specific aggregation but still count toward ordering.
	TypeUnknown Type = iota
	TypeCreate       // generative, deep work
	TypeDecide       // judgment calls
	TypeConnect      // interpersonal time
	TypeReview       // evaluative, low-creative work
	TypeRecover      // rest
)

// Types lists the known attention types in a stable order.
var Types = []Type{TypeCreate, TypeDecide, TypeConnect, TypeReview, TypeRecover}

// String returns the wire name of the type, or "" for unknown.
func (t Type) String() string {
	switch t {
	case TypeCreate:
		return "create"
	case TypeDecide:
		return "decide"
	case TypeConnect:
		return "connect"
	case TypeReview:
		return "review"
	case TypeRecover:
		return "recover"
	default:
		return ""
	}
}

// Known reports whether t is one of the five attention types.
func (t Type) Known() bool {
	return t >= TypeCreate && t <= TypeRecover
}

// HighAttention reports whether the type belongs in peak hours.
// Create and decide work demand the most cognitive capacity.
func (t Type) HighAttention() bool {
	return t == TypeCreate || t == TypeDecide
}

// ParseType maps a wire name to a Type. Unrecognized names return
// TypeUnknown rather than an error.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "create":
		return TypeCreate
	case "decide":
		return TypeDecide
	case "connect":
		return TypeConnect
	case "review":
		return TypeReview
	case "recover":
		return TypeRecover
	default:
		return TypeUnknown
	}
}

// MarshalText implements encoding.TextMarshaler so Type works both as a JSON
// string field and as a JSON object key in budget maps.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to
// TypeUnknown; decoding never fails.
func (t *Type) UnmarshalText(text []byte) error {
	*t = ParseType(string(text))
	return nil
}

// Role is a user's working-style archetype. It parameterizes budgets,
// switch tolerance, and optimization behavior.
type Role int

const (
	// RoleUnknown triggers the documented neutral profile.
	RoleUnknown Role = iota
	RoleMaker        // deep-work focused
	RoleMarker       // decision focused
	RoleMultiplier   // delegation and connection focused
)

func (r Role) String() string {
	switch r {
	case RoleMaker:
		return "maker"
	case RoleMarker:
		return "marker"
	case RoleMultiplier:
		return "multiplier"
	default:
		return ""
	}
}

// ParseRole maps a wire name to a Role; unrecognized names return RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "maker":
		return RoleMaker
	case "marker":
		return RoleMarker
	case "multiplier":
		return RoleMultiplier
	default:
		return RoleUnknown
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

// Zone is a context modifier that tightens or relaxes role thresholds.
type Zone int

const (
	ZoneNeutral   Zone = iota // absent or unrecognized zone
	ZoneWartime               // crisis mode: tighter tolerances
	ZonePeacetime             // steady state: relaxed tolerances
)

func (z Zone) String() string {
	switch z {
	case ZoneWartime:
		return "wartime"
	case ZonePeacetime:
		return "peacetime"
	default:
		return ""
	}
}

// ParseZone maps a wire name to a Zone; unrecognized names return ZoneNeutral.
func ParseZone(s string) Zone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wartime":
		return ZoneWartime
	case "peacetime":
		return ZonePeacetime
	default:
		return ZoneNeutral
	}
}

func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *Zone) UnmarshalText(text []byte) error {
	*z = ParseZone(string(text))
	return nil
}

// GoString helps test failure output stay readable.
func (t Type) GoString() string { return fmt.Sprintf("attention.Type(%q)", t.String()) }
