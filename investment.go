package financechat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentType is the asset class of an investment.
type InvestmentType string

// Investment types, the values are the tags persisted in the data blob.
const (
	Stocks       InvestmentType = "acoes"
	Funds        InvestmentType = "fundos"
	FixedIncome  InvestmentType = "renda-fixa"
	Crypto       InvestmentType = "criptomoedas"
	TreasuryBond InvestmentType = "tesouro-direto"
	OtherType    InvestmentType = "outros"
)

// InvestmentTypes returns all investment types in display order.
func InvestmentTypes() []InvestmentType {
	return []InvestmentType{Stocks, Funds, FixedIncome, Crypto, TreasuryBond, OtherType}
}

// Label returns the display name of the type.
func (t InvestmentType) Label() string {
	switch t {
	case Stocks:
		return "Ações"
	case Funds:
		return "Fundos"
	case FixedIncome:
		return "Renda Fixa"
	case Crypto:
		return "Criptomoedas"
	case TreasuryBond:
		return "Tesouro Direto"
	case OtherType:
		return "Outros"
	default:
		return string(t)
	}
}

// ParseInvestmentType parses a type from its tag or its label.
func ParseInvestmentType(s string) (InvestmentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range InvestmentTypes() {
		if s == string(t) || s == strings.ToLower(t.Label()) {
			return t, nil
		}
	}
	switch s {
	case "acao", "ação", "acoes", "ações":
		return Stocks, nil
	case "fundo":
		return Funds, nil
	case "renda fixa", "rendafixa":
		return FixedIncome, nil
	case "cripto", "crypto":
		return Crypto, nil
	case "tesouro":
		return TreasuryBond, nil
	}
	return "", fmt.Errorf("unknown investment type: %q", s)
}

// classification rules, first match wins.
var investmentRules = []struct {
	keywords []string
	typ      InvestmentType
}{
	{[]string{"ação", "ações", "acao", "acoes"}, Stocks},
	{[]string{"fundo"}, Funds},
	{[]string{"renda fixa", "cdb", "lci", "lca"}, FixedIncome},
	{[]string{"cripto", "bitcoin"}, Crypto},
	{[]string{"tesouro"}, TreasuryBond},
}

// ClassifyInvestment guesses the investment type from a free text description.
func ClassifyInvestment(description string) InvestmentType {
	d := strings.ToLower(description)
	for _, r := range investmentRules {
		for _, k := range r.keywords {
			if strings.Contains(d, k) {
				return r.typ
			}
		}
	}
	return OtherType
}

// Investment tracks the marked value of money invested from an account.
type Investment struct {
	ID           string
	Timestamp    time.Time
	Type         InvestmentType
	Description  string
	InitialValue decimal.Decimal
	CurrentValue decimal.Decimal
	Account      string
}

// NewInvestmentFrom derives the investment paired with an Investment-kind transaction.
func NewInvestmentFrom(tx Transaction) Investment {
	current := tx.Amount
	if tx.CurrentValue.Valid {
		current = tx.CurrentValue.Decimal
	}
	return Investment{
		ID:           tx.ID,
		Timestamp:    tx.Timestamp,
		Type:         ClassifyInvestment(tx.Description),
		Description:  tx.Description,
		InitialValue: tx.Amount,
		CurrentValue: current,
		Account:      tx.SourceAccount,
	}
}

// Validate checks the invariants of an investment.
func (inv Investment) Validate() error {
	if inv.ID == "" {
		return fmt.Errorf("investment id is missing")
	}
	if inv.InitialValue.IsNegative() {
		return fmt.Errorf("investment initial value cannot be negative, got %s", inv.InitialValue)
	}
	if inv.CurrentValue.IsNegative() {
		return errNegativeValue
	}
	if strings.TrimSpace(inv.Account) == "" {
		return fmt.Errorf("investment account is missing")
	}
	return nil
}

// Equal reports whether both investments hold the same values.
func (inv Investment) Equal(o Investment) bool {
	return inv.ID == o.ID &&
		inv.Timestamp.Equal(o.Timestamp) &&
		inv.Type == o.Type &&
		inv.Description == o.Description &&
		inv.InitialValue.Equal(o.InitialValue) &&
		inv.CurrentValue.Equal(o.CurrentValue) &&
		inv.Account == o.Account
}

// MarshalJSON implements the json.Marshaler interface for Investment.
func (inv Investment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", inv.ID)
	w.Append("timestamp", inv.Timestamp)
	w.Append("type", inv.Type)
	w.Append("description", inv.Description)
	w.Decimal("initialValue", inv.InitialValue)
	w.Decimal("currentValue", inv.CurrentValue)
	w.Append("account", inv.Account)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Investment.
//
// Records written by the browser version use "amount", "bank" and "date",
// and may lack a current value or a description.
func (inv *Investment) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           json.RawMessage     `json:"id"`
		Timestamp    time.Time           `json:"timestamp"`
		Date         time.Time           `json:"date"`
		Type         InvestmentType      `json:"type"`
		Description  string              `json:"description"`
		InitialValue decimal.NullDecimal `json:"initialValue"`
		Amount       decimal.NullDecimal `json:"amount"`
		CurrentValue decimal.NullDecimal `json:"currentValue"`
		Account      string              `json:"account"`
		Bank         string              `json:"bank"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	id, err := decodeID(temp.ID)
	if err != nil {
		return err
	}

	initial := temp.InitialValue
	if !initial.Valid {
		initial = temp.Amount
	}
	current := temp.CurrentValue
	if !current.Valid {
		current = initial
	}
	typ := temp.Type
	if typ == "" {
		typ = ClassifyInvestment(temp.Description)
	}
	description := temp.Description
	if strings.TrimSpace(description) == "" {
		description = typ.Label()
	}

	*inv = Investment{
		ID:           id,
		Timestamp:    firstTime(temp.Timestamp, temp.Date),
		Type:         typ,
		Description:  description,
		InitialValue: initial.Decimal,
		CurrentValue: current.Decimal,
		Account:      firstOf(temp.Account, temp.Bank),
	}
	return nil
}
