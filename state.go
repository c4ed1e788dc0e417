package financechat

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AppState is the aggregate root of the application: the ordered transaction
// log, the investments and the custom account names.
//
// Transactions are kept in insertion order and never reordered.
// AppState is not safe for concurrent use, its owner serializes access.
type AppState struct {
	transactions   []Transaction
	investments    []Investment
	customAccounts []string
}

// NewAppState creates an empty state.
func NewAppState() *AppState {
	return &AppState{
		transactions:   make([]Transaction, 0),
		investments:    make([]Investment, 0),
		customAccounts: make([]string, 0),
	}
}

// Append adds a transaction at the end of the log.
func (s *AppState) Append(tx Transaction) {
	s.transactions = append(s.transactions, tx)
}

// Record appends tx and, for an Investment-kind transaction, creates the
// paired investment sharing its id. It returns the investment created, if any.
func (s *AppState) Record(tx Transaction) (Investment, bool) {
	s.Append(tx)
	if tx.Kind != KindInvestment {
		return Investment{}, false
	}
	inv := NewInvestmentFrom(tx)
	s.investments = append(s.investments, inv)
	return inv, true
}

// Invest records money invested from account into an asset of type typ.
//
// The investment and its Investment-kind transaction share the same id.
// An empty account means the default account.
func (s *AppState) Invest(typ InvestmentType, amount decimal.Decimal, account string) (Transaction, Investment, error) {
	return s.investAt(NewID(), time.Now(), typ, amount, account)
}

func (s *AppState) investAt(id string, on time.Time, typ InvestmentType, amount decimal.Decimal, account string) (Transaction, Investment, error) {
	if !amount.IsPositive() {
		return Transaction{}, Investment{}, ErrInvalidAmount
	}
	if strings.TrimSpace(account) == "" {
		account = DefaultAccount
	}
	tx := newTransaction(id, on, KindInvestment, amount, typ.Label(), account, "")
	inv := Investment{
		ID:           id,
		Timestamp:    on,
		Type:         typ,
		Description:  typ.Label(),
		InitialValue: amount,
		CurrentValue: amount,
		Account:      account,
	}
	s.transactions = append(s.transactions, tx)
	s.investments = append(s.investments, inv)
	return tx, inv, nil
}

// AddCustomAccount registers a new account name.
// It returns false if the name is empty or already known.
func (s *AppState) AddCustomAccount(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(s.Accounts(), name) {
		return false
	}
	s.customAccounts = append(s.customAccounts, name)
	return true
}

// Accounts returns the default accounts followed by the custom ones.
func (s *AppState) Accounts() []string {
	return append(DefaultAccounts(), s.customAccounts...)
}

// CustomAccounts returns the accounts added by the user.
func (s *AppState) CustomAccounts() []string {
	return slices.Clone(s.customAccounts)
}

// Transactions returns the transactions in insertion order.
func (s *AppState) Transactions() []Transaction {
	return slices.Clone(s.transactions)
}

// Investments returns the investments in creation order.
func (s *AppState) Investments() []Investment {
	return slices.Clone(s.investments)
}

// Investment returns the investment with this id.
func (s *AppState) Investment(id string) (Investment, bool) {
	i := slices.IndexFunc(s.investments, func(inv Investment) bool { return inv.ID == id })
	if i < 0 {
		return Investment{}, false
	}
	return s.investments[i], true
}

// AmendInvestmentValue marks the investment id at value, together with every
// transaction sharing its id. Nothing is modified when an error is returned.
func (s *AppState) AmendInvestmentValue(id string, value decimal.Decimal) error {
	if value.IsNegative() {
		return ErrInvalidAmount
	}
	i := slices.IndexFunc(s.investments, func(inv Investment) bool { return inv.ID == id })
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	var paired []int
	for j, tx := range s.transactions {
		if tx.ID == id && tx.Kind == KindInvestment {
			paired = append(paired, j)
		}
	}

	s.investments[i].CurrentValue = value
	for _, j := range paired {
		s.transactions[j].CurrentValue = decimal.NewNullDecimal(value)
	}
	return nil
}

// Merge appends transactions and investments whose id is not already present.
// It returns the number of records added and the ids skipped as duplicates.
func (s *AppState) Merge(txs []Transaction, invs []Investment) (added int, dups []string) {
	seen := make(map[string]bool, len(s.transactions))
	for _, tx := range s.transactions {
		seen[tx.ID] = true
	}
	for _, tx := range txs {
		if seen[tx.ID] {
			dups = append(dups, tx.ID)
			continue
		}
		seen[tx.ID] = true
		s.transactions = append(s.transactions, tx)
		added++
	}

	seen = make(map[string]bool, len(s.investments))
	for _, inv := range s.investments {
		seen[inv.ID] = true
	}
	for _, inv := range invs {
		if seen[inv.ID] {
			dups = append(dups, inv.ID)
			continue
		}
		seen[inv.ID] = true
		s.investments = append(s.investments, inv)
		added++
	}
	return added, dups
}

// Reset removes every transaction, investment and custom account.
func (s *AppState) Reset() {
	*s = *NewAppState()
}

// Replace overwrites s with the content of other.
func (s *AppState) Replace(other *AppState) {
	*s = *other.Snapshot()
}

// Snapshot returns an independent copy of the state.
func (s *AppState) Snapshot() *AppState {
	return &AppState{
		transactions:   slices.Clone(s.transactions),
		investments:    slices.Clone(s.investments),
		customAccounts: slices.Clone(s.customAccounts),
	}
}

// Len returns the number of transactions.
func (s *AppState) Len() int { return len(s.transactions) }
