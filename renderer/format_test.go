package renderer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/financechat"
)

func TestFormatCurrency(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "zero", input: "0", want: "R$ 0,00"},
		{name: "cents", input: "0.5", want: "R$ 0,50"},
		{name: "grouping", input: "1234.5", want: "R$ 1.234,50"},
		{name: "millions", input: "1234567.891", want: "R$ 1.234.567,89"},
		{name: "negative", input: "-50", want: "-R$ 50,00"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatCurrency(decimal.RequireFromString(tc.input))
			if got != tc.want {
				t.Errorf("FormatCurrency(%s) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormatSignedCurrency(t *testing.T) {
	for input, want := range map[string]string{
		"10":    "+R$ 10,00",
		"-10":   "-R$ 10,00",
		"0":     "R$ 0,00",
		"0.001": "R$ 0,00",
	} {
		if got := FormatSignedCurrency(decimal.RequireFromString(input)); got != want {
			t.Errorf("FormatSignedCurrency(%s) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	on := time.Date(2025, time.March, 7, 23, 0, 0, 0, time.UTC)
	if got, want := FormatDate(on), "07/03/2025"; got != want {
		t.Errorf("FormatDate() = %q, want %q", got, want)
	}
}

func TestLabels(t *testing.T) {
	if got, want := KindLabel(financechat.KindTransfer), "Transferência"; got != want {
		t.Errorf("KindLabel() = %q, want %q", got, want)
	}
	if got, want := InvestmentTypeLabel("tesouro-direto"), "Tesouro Direto"; got != want {
		t.Errorf("InvestmentTypeLabel() = %q, want %q", got, want)
	}
	if got, want := InvestmentTypeLabel("imoveis"), "imoveis"; got != want {
		t.Errorf("InvestmentTypeLabel() = %q, want %q", got, want)
	}
}
