package domain

// PricePerUnit computes the unit price by truncating integer division.
// Returns zero when totalUnits is zero so listings never fail on a
// degenerate record.
func PricePerUnit(totalPrice, totalUnits uint64) uint64 {
	if totalUnits == 0 {
		return 0
	}
	return totalPrice / totalUnits
}

// CostFor quotes the cost of buying amount units.
// The chained truncation ((price/units)*amount rather than
// (price*amount)/units) matches the on-chain buy entry point, so the
// quote always equals what the contract charges; the per-unit remainder
// is dropped for every unit, not once per purchase.
func CostFor(totalPrice, totalUnits, amount uint64) uint64 {
	return PricePerUnit(totalPrice, totalUnits) * amount
}

// RemainingUnits computes the unsold unit count, clamped at zero in
// case the circulating figure overshoots the issuable total.
func RemainingUnits(totalUnits, circulating uint64) uint64 {
	if circulating >= totalUnits {
		return 0
	}
	return totalUnits - circulating
}
