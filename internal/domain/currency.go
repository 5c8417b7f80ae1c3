package domain

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code supported by the dashboard
type Currency string

const (
	CurrencyCNY Currency = "CNY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyJPY Currency = "JPY"
	CurrencyHKD Currency = "HKD"
)

// Currencies lists all supported currencies in declaration order
var Currencies = []Currency{CurrencyCNY, CurrencyUSD, CurrencyEUR, CurrencyJPY, CurrencyHKD}

// ParseCurrency normalizes a user supplied code ("usd", " HKD ") into a Currency
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", &ValidationError{Field: "currency", Message: "unsupported currency " + code}
	}
	return c, nil
}

// Valid reports whether c is one of the supported currencies
func (c Currency) Valid() bool {
	switch c {
	case CurrencyCNY, CurrencyUSD, CurrencyEUR, CurrencyJPY, CurrencyHKD:
		return true
	}
	return false
}

// Symbol returns the display prefix for the currency
func (c Currency) Symbol() string {
	switch c {
	case CurrencyCNY, CurrencyJPY:
		return "¥"
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	case CurrencyHKD:
		return "HK$"
	default:
		return string(c) + " "
	}
}

// Decimals returns the number of minor-unit digits shown for the currency
func (c Currency) Decimals() int32 {
	if c == CurrencyJPY {
		return 0
	}
	return 2
}

// FormatAmount renders amount with the currency symbol and thousands grouping,
// e.g. "$1,234.50", "-¥12,000" for JPY.
func (c Currency) FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(c.Decimals())
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	format := "#,###.##"
	if c.Decimals() == 0 {
		format = "#,###."
	}
	f, _ := rounded.Float64()
	return sign + c.Symbol() + humanize.FormatFloat(format, f)
}
