package model

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places stored for prices and amounts
const MoneyScale = 2

// RoundMoney rounds d half away from zero to the stored scale
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}
