package financechat

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TipLevel is the tone of a financial tip.
type TipLevel int

const (
	TipInfo TipLevel = iota
	TipPraise
	TipSuggestion
	TipCaution
	TipWarning
)

func (l TipLevel) String() string {
	switch l {
	case TipPraise:
		return "praise"
	case TipSuggestion:
		return "suggestion"
	case TipCaution:
		return "caution"
	case TipWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l TipLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Tip is an advice computed from the transactions.
type Tip struct {
	Level   TipLevel
	Message string
}

// minTipTransactions is the number of transactions below which no analysis is made.
const minTipTransactions = 3

// maxAccountsBeforeConsolidation is the number of accounts above which
// consolidation is suggested.
const maxAccountsBeforeConsolidation = 3

// thresholds, in percent of income.
var (
	ninetyPct = decimal.NewFromInt(90)
	fiftyPct  = decimal.NewFromInt(50)
	twentyPct = decimal.NewFromInt(20)
	tenPct    = decimal.NewFromInt(10)
)

// tipPercent returns part as a percentage of whole, whole must be positive.
func tipPercent(part, whole decimal.Decimal) decimal.Decimal {
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}

// FinancialTips evaluates a fixed list of rules over txs.
//
// With fewer than 3 transactions a single tip asking for more data is returned.
// Otherwise the rules are, in order: spending compared to income, investment
// rate compared to income, and the number of accounts used.
func FinancialTips(txs []Transaction) []Tip {
	if len(txs) < minTipTransactions {
		return []Tip{{
			Level:   TipInfo,
			Message: fmt.Sprintf("Registre pelo menos %d transações para receber dicas personalizadas.", minTipTransactions),
		}}
	}

	var tips []Tip
	s := Summarize(txs)

	switch {
	case s.Expenses.GreaterThan(s.Income):
		tips = append(tips, Tip{
			Level:   TipWarning,
			Message: "Seus gastos estão maiores que suas receitas. Revise suas despesas para não se endividar.",
		})
	case s.Income.IsPositive() && tipPercent(s.Expenses, s.Income).GreaterThan(ninetyPct):
		tips = append(tips, Tip{
			Level:   TipCaution,
			Message: fmt.Sprintf("Seus gastos consomem %s da sua renda. Tente guardar uma parte para emergências.", pct(s.Expenses, s.Income)),
		})
	case s.Income.IsPositive() && tipPercent(s.Expenses, s.Income).LessThan(fiftyPct):
		tips = append(tips, Tip{
			Level:   TipPraise,
			Message: fmt.Sprintf("Parabéns! Seus gastos representam apenas %s da sua renda.", pct(s.Expenses, s.Income)),
		})
	}

	if s.Income.IsPositive() {
		rate := tipPercent(s.Invested, s.Income)
		switch {
		case rate.LessThan(tenPct):
			tips = append(tips, Tip{
				Level:   TipSuggestion,
				Message: fmt.Sprintf("Você investe %s da sua renda. Tente investir pelo menos 10%%.", pct(s.Invested, s.Income)),
			})
		case rate.LessThan(twentyPct):
			tips = append(tips, Tip{
				Level:   TipPraise,
				Message: fmt.Sprintf("Bom trabalho! Você investe %s da sua renda. Que tal chegar a 20%%?", pct(s.Invested, s.Income)),
			})
		default:
			tips = append(tips, Tip{
				Level:   TipPraise,
				Message: fmt.Sprintf("Excelente! Você investe %s da sua renda.", pct(s.Invested, s.Income)),
			})
		}
	}

	if n := len(AccountsUsed(txs)); n > maxAccountsBeforeConsolidation {
		tips = append(tips, Tip{
			Level:   TipSuggestion,
			Message: fmt.Sprintf("Você usa %d contas diferentes. Considere concentrar suas finanças em menos bancos.", n),
		})
	}
	return tips
}

func pct(part, whole decimal.Decimal) Percent {
	return Percent(tipPercent(part, whole).InexactFloat64())
}
