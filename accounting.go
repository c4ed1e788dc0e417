package financechat

import (
	"slices"

	"github.com/shopspring/decimal"
)

// This file contains the aggregation engine: pure functions computed on demand
// over a snapshot of the transactions or investments. Nothing is cached.

// Entry is a named value of a Breakdown.
type Entry struct {
	Name  string
	Value decimal.Decimal
}

// Breakdown is a list of named values, in the order names were first seen.
type Breakdown []Entry

// Total returns the sum of all values.
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b {
		total = total.Add(e.Value)
	}
	return total
}

// Get returns the value of name, zero if absent.
func (b Breakdown) Get(name string) decimal.Decimal {
	if i := b.index(name); i >= 0 {
		return b[i].Value
	}
	return decimal.Zero
}

// Names returns the names in order.
func (b Breakdown) Names() []string {
	names := make([]string, len(b))
	for i, e := range b {
		names[i] = e.Name
	}
	return names
}

func (b Breakdown) index(name string) int {
	return slices.IndexFunc(b, func(e Entry) bool { return e.Name == name })
}

// add accumulates v on name, creating the entry if needed.
func (b *Breakdown) add(name string, v decimal.Decimal) {
	if i := b.index(name); i >= 0 {
		(*b)[i].Value = (*b)[i].Value.Add(v)
		return
	}
	*b = append(*b, Entry{Name: name, Value: v})
}

// BalancesByAccount computes the net balance of each account.
//
// Income credits the source account, expenses and investments debit it, and
// transfers move the amount from the source to the destination account.
// The result does not depend on the order of txs.
func BalancesByAccount(txs []Transaction) Breakdown {
	b := Breakdown{}
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			b.add(tx.SourceAccount, tx.Amount)
		case KindExpense, KindInvestment:
			b.add(tx.SourceAccount, tx.Amount.Neg())
		case KindTransfer:
			b.add(tx.SourceAccount, tx.Amount.Neg())
			b.add(tx.DestinationAccount, tx.Amount)
		}
	}
	return b
}

// TotalBalance is the sum of all account balances.
func TotalBalance(txs []Transaction) decimal.Decimal {
	return BalancesByAccount(txs).Total()
}

// TotalsByKind sums amounts per kind. All kinds are present, in Kinds order.
func TotalsByKind(txs []Transaction) Breakdown {
	b := make(Breakdown, 0, 4)
	for _, k := range Kinds() {
		b = append(b, Entry{Name: string(k), Value: decimal.Zero})
	}
	for _, tx := range txs {
		if tx.Kind.Valid() {
			b.add(string(tx.Kind), tx.Amount)
		}
	}
	return b
}

// ExpensesByCategory sums expenses per description, verbatim.
func ExpensesByCategory(txs []Transaction) Breakdown {
	b := Breakdown{}
	for _, tx := range txs {
		if tx.Kind == KindExpense {
			b.add(tx.Description, tx.Amount)
		}
	}
	return b
}

// PortfolioByType sums the current value of investments per type tag.
func PortfolioByType(invs []Investment) Breakdown {
	b := Breakdown{}
	for _, inv := range invs {
		b.add(string(inv.Type), inv.CurrentValue)
	}
	return b
}

// PortfolioByDescription sums the current value of investments per description.
func PortfolioByDescription(invs []Investment) Breakdown {
	b := Breakdown{}
	for _, inv := range invs {
		b.add(inv.Description, inv.CurrentValue)
	}
	return b
}

// Performance is the gain of an investment since it was made.
type Performance struct {
	Gain        decimal.Decimal
	GainPercent Percent
}

// NewPerformance computes the gain from initial to current.
// GainPercent is zero when initial is not positive.
func NewPerformance(initial, current decimal.Decimal) Performance {
	gain := current.Sub(initial)
	p := Performance{Gain: gain}
	if initial.IsPositive() {
		p.GainPercent = Percent(gain.Div(initial).Mul(decimal.NewFromInt(100)).InexactFloat64())
	}
	return p
}

// InvestmentPerformance returns the performance of a single investment.
func InvestmentPerformance(inv Investment) Performance {
	return NewPerformance(inv.InitialValue, inv.CurrentValue)
}

// PortfolioPerformance returns the performance of all investments together.
func PortfolioPerformance(invs []Investment) Performance {
	return NewPerformance(TotalInvested(invs), PortfolioValue(invs))
}

// TotalInvested sums the initial value of investments.
func TotalInvested(invs []Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invs {
		total = total.Add(inv.InitialValue)
	}
	return total
}

// PortfolioValue sums the current value of investments.
func PortfolioValue(invs []Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invs {
		total = total.Add(inv.CurrentValue)
	}
	return total
}

// Summary is the overview of income and spending.
type Summary struct {
	Income    decimal.Decimal
	Expenses  decimal.Decimal
	Balance   decimal.Decimal // Balance is KindIncome minus Expenses.
	Invested  decimal.Decimal
	Transfers decimal.Decimal
	Count     int
}

// Summarize computes the summary of txs.
func Summarize(txs []Transaction) Summary {
	totals := TotalsByKind(txs)
	s := Summary{
		Income:    totals.Get(string(KindIncome)),
		Expenses:  totals.Get(string(KindExpense)),
		Invested:  totals.Get(string(KindInvestment)),
		Transfers: totals.Get(string(KindTransfer)),
		Count:     len(txs),
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return s
}

// Holding groups the investments of one type held in one account.
type Holding struct {
	Type         InvestmentType
	Account      string
	Count        int
	InitialValue decimal.Decimal
	CurrentValue decimal.Decimal
}

// Performance returns the performance of the holding.
func (h Holding) Performance() Performance {
	return NewPerformance(h.InitialValue, h.CurrentValue)
}

// HoldingsByTypeAndAccount groups investments by type and account, in first seen order.
func HoldingsByTypeAndAccount(invs []Investment) []Holding {
	var holdings []Holding
	for _, inv := range invs {
		i := slices.IndexFunc(holdings, func(h Holding) bool {
			return h.Type == inv.Type && h.Account == inv.Account
		})
		if i < 0 {
			holdings = append(holdings, Holding{Type: inv.Type, Account: inv.Account, InitialValue: decimal.Zero, CurrentValue: decimal.Zero})
			i = len(holdings) - 1
		}
		h := &holdings[i]
		h.Count++
		h.InitialValue = h.InitialValue.Add(inv.InitialValue)
		h.CurrentValue = h.CurrentValue.Add(inv.CurrentValue)
	}
	return holdings
}

// Recent returns the last n transactions, newest first.
func Recent(txs []Transaction, n int) []Transaction {
	if n < 0 {
		n = 0
	}
	start := max(len(txs)-n, 0)
	recent := slices.Clone(txs[start:])
	slices.Reverse(recent)
	return recent
}

// AccountsUsed returns the distinct accounts appearing in txs, source or
// destination, in first seen order.
func AccountsUsed(txs []Transaction) []string {
	var accounts []string
	use := func(a string) {
		if a != "" && !slices.Contains(accounts, a) {
			accounts = append(accounts, a)
		}
	}
	for _, tx := range txs {
		use(tx.SourceAccount)
		use(tx.DestinationAccount)
	}
	return accounts
}
