// Package renderer turns the application state into what users look at:
// chart series, formatted values and markdown reports.
package renderer

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/etnz/financechat"
)

// brl formats amounts in cents the way Brazilian banks display them, "R$ 1.234,50".
var brl = func() *money.Formatter {
	cur := money.New(0, "BRL").Currency()
	return money.NewFormatter(cur.Fraction, cur.Decimal, cur.Thousand, cur.Grapheme, "$ 1")
}()

// FormatCurrency formats an amount in reais, rounded to the cent.
func FormatCurrency(d decimal.Decimal) string {
	return brl.Format(d.Round(2).Shift(2).IntPart())
}

// FormatSignedCurrency is like FormatCurrency with an explicit "+" for positive amounts.
func FormatSignedCurrency(d decimal.Decimal) string {
	if d.Round(2).IsPositive() {
		return "+" + FormatCurrency(d)
	}
	return FormatCurrency(d)
}

// FormatDate formats the date part of t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// KindLabel returns the display name of a transaction kind.
func KindLabel(k financechat.Kind) string { return k.Label() }

// InvestmentTypeLabel returns the display name of an investment type tag.
// Unknown tags are displayed as is.
func InvestmentTypeLabel(tag string) string {
	return financechat.InvestmentType(tag).Label()
}
