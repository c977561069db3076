package attention

// Base costs for transitioning between two attention types, before the gap
// multiplier. The table is asymmetric: leaving deep work is costlier than
// entering it, and the review/connect pair carries the least friction. The
// exact constants are calibratable heuristics; only their relative ordering
// is load-bearing.
var switchBaseCost = map[[2]Type]float64{
	{TypeCreate, TypeConnect}: 9,
	{TypeCreate, TypeDecide}:  6,
	{TypeCreate, TypeReview}:  5,
	{TypeCreate, TypeRecover}: 2,

	{TypeConnect, TypeCreate}: 6,
	{TypeConnect, TypeDecide}: 5,
	{TypeConnect, TypeReview}: 1,

	{TypeDecide, TypeCreate}:  4,
	{TypeDecide, TypeConnect}: 4,

	{TypeReview, TypeConnect}: 1,
	{TypeReview, TypeCreate}:  3,

	{TypeRecover, TypeCreate}: 1,
}

// Pairs absent from the table carry a low default cost.
const defaultSwitchCost = 2

const maxSwitchCost = 10

// SwitchCost computes the 0-10 cognitive cost of transitioning from one
// attention type to another after an idle gap of gapMinutes. Equal types
// cost 0 regardless of gap. Tight switches are penalized and well-rested
// ones rewarded:
//
//	gap < 15   -> x1.5
//	gap 15-29  -> x1.2
//	gap 30-59  -> x1.0
//	gap >= 60  -> x0.8
//
// The function is pure and deterministic for identical inputs.
func SwitchCost(from, to Type, gapMinutes int) float64 {
	if from == to {
		return 0
	}
	base, ok := switchBaseCost[[2]Type{from, to}]
	if !ok {
		base = defaultSwitchCost
	}

	var mult float64
	switch {
	case gapMinutes < 15:
		mult = 1.5
	case gapMinutes < 30:
		mult = 1.2
	case gapMinutes < 60:
		mult = 1.0
	default:
		mult = 0.8
	}

	cost := base * mult
	if cost > maxSwitchCost {
		return maxSwitchCost
	}
	return cost
}
