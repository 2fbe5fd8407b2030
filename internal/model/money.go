package model

import "github.com/shopspring/decimal"

// DefaultCurrency is used for orders and hotels without an explicit currency.
const DefaultCurrency = "USD"

// RoundMoney rounds to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
