package financechat

import (
	"fmt"
	"strings"
)

// Kind is the closed category of a transaction.
type Kind string

// Kinds of transactions. The values are the tags persisted in the data blob.
const (
	KindIncome     Kind = "receita"
	KindExpense    Kind = "gasto"
	KindTransfer   Kind = "transferencia"
	KindInvestment Kind = "investimento"
)

// Kinds returns all the kinds in their canonical order.
func Kinds() []Kind {
	return []Kind{KindIncome, KindExpense, KindTransfer, KindInvestment}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransfer, KindInvestment:
		return true
	}
	return false
}

// Label returns the display label of the kind.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Receita"
	case KindExpense:
		return "Gasto"
	case KindTransfer:
		return "Transferência"
	case KindInvestment:
		return "Investimento"
	default:
		return string(k)
	}
}

// ParseKind parses a kind from its tag, its label or its english name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "receita", "income":
		return KindIncome, nil
	case "gasto", "expense":
		return KindExpense, nil
	case "transferencia", "transferência", "transfer":
		return KindTransfer, nil
	case "investimento", "investment":
		return KindInvestment, nil
	default:
		return "", fmt.Errorf("unknown transaction kind: %q", s)
	}
}
