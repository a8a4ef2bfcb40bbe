package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MoneyPlaces is the scale prices are stored with.
const MoneyPlaces = 2

// ComputePrice returns base + base/100*percent in decimal arithmetic.
// The result is exact; use RoundMoney before persisting it.
func ComputePrice(base decimal.Decimal, percent int) decimal.Decimal {
	return base.Add(base.Div(hundred).Mul(decimal.NewFromInt(int64(percent))))
}

// RoundMoney rounds to MoneyPlaces, half away from zero, the way a
// numeric(12,2) column does on insert.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
