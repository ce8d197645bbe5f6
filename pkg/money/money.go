package money

import "github.com/shopspring/decimal"

// USDCDecimals is the sub-unit scale of the settlement currency.
const USDCDecimals = 6

// FromSubUnits converts a raw on-ledger amount into a decimal value in
// whole currency units.
func FromSubUnits(amount uint64) decimal.Decimal {
	return decimal.New(int64(amount), -USDCDecimals)
}

// FormatUSDC renders a raw sub-unit amount as a human-readable USDC
// string, e.g. 1_500_000 -> "1.5".
func FormatUSDC(amount uint64) string {
	return FromSubUnits(amount).String()
}
