package financechat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDescription is used when no description can be extracted from a message.
const DefaultDescription = "Sem descrição"

// TransferDescription is the fixed description of transfers.
const TransferDescription = "Transferência"

// Transaction is a single entry of the log. It is immutable once recorded,
// except for CurrentValue of investments that follows the paired Investment.
type Transaction struct {
	ID                 string
	Timestamp          time.Time
	Kind               Kind
	Amount             decimal.Decimal     // Amount is a positive magnitude, the Kind gives its direction.
	Description        string              // Description is never empty.
	SourceAccount      string              // SourceAccount is credited for income, debited otherwise.
	DestinationAccount string              // DestinationAccount is only set for transfers.
	CurrentValue       decimal.NullDecimal // CurrentValue is only valid for investments.
}

// NewID returns a new time ordered identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewTransaction creates a transaction with a fresh id, timestamped now.
// destination is ignored unless kind is KindTransfer.
func NewTransaction(kind Kind, amount decimal.Decimal, description, source, destination string) Transaction {
	return newTransaction(NewID(), time.Now(), kind, amount, description, source, destination)
}

func newTransaction(id string, on time.Time, kind Kind, amount decimal.Decimal, description, source, destination string) Transaction {
	tx := Transaction{
		ID:            id,
		Timestamp:     on,
		Kind:          kind,
		Amount:        amount,
		Description:   description,
		SourceAccount: source,
	}
	if strings.TrimSpace(tx.Description) == "" {
		tx.Description = DefaultDescription
	}
	switch kind {
	case KindTransfer:
		tx.DestinationAccount = destination
	case KindInvestment:
		tx.CurrentValue = decimal.NewNullDecimal(amount)
	}
	return tx
}

// Validate checks the invariants of a transaction.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("transaction id is missing")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("unknown transaction kind %q", t.Kind)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount)
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("transaction description is empty")
	}
	if strings.TrimSpace(t.SourceAccount) == "" {
		return errors.New("transaction account is missing")
	}
	if t.Kind == KindTransfer && strings.TrimSpace(t.DestinationAccount) == "" {
		return errors.New("transfer destination account is missing")
	}
	if t.Kind != KindTransfer && t.DestinationAccount != "" {
		return fmt.Errorf("%s transaction cannot have a destination account", t.Kind)
	}
	if t.Kind == KindInvestment {
		if !t.CurrentValue.Valid {
			return errors.New("investment current value is missing")
		}
		if t.CurrentValue.Decimal.IsNegative() {
			return errNegativeValue
		}
	} else if t.CurrentValue.Valid {
		return fmt.Errorf("%s transaction cannot have a current value", t.Kind)
	}
	return nil
}

// Equal reports whether both transactions hold the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Timestamp.Equal(o.Timestamp) &&
		t.Kind == o.Kind &&
		t.Amount.Equal(o.Amount) &&
		t.Description == o.Description &&
		t.SourceAccount == o.SourceAccount &&
		t.DestinationAccount == o.DestinationAccount &&
		t.CurrentValue.Valid == o.CurrentValue.Valid &&
		t.CurrentValue.Decimal.Equal(o.CurrentValue.Decimal)
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("timestamp", t.Timestamp)
	w.Append("kind", t.Kind)
	w.Decimal("amount", t.Amount)
	w.Append("description", t.Description)
	w.Append("sourceAccount", t.SourceAccount)
	w.Optional("destinationAccount", t.DestinationAccount)
	if t.CurrentValue.Valid {
		w.Decimal("currentValue", t.CurrentValue.Decimal)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
//
// Besides its own fields it reads the field names used by the browser version
// of the application: "date", "type", "bank", "toBank" and numeric ids.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID                 json.RawMessage     `json:"id"`
		Timestamp          time.Time           `json:"timestamp"`
		Date               time.Time           `json:"date"`
		Kind               Kind                `json:"kind"`
		Type               Kind                `json:"type"`
		Amount             decimal.Decimal     `json:"amount"`
		Description        string              `json:"description"`
		SourceAccount      string              `json:"sourceAccount"`
		Bank               string              `json:"bank"`
		DestinationAccount string              `json:"destinationAccount"`
		ToBank             string              `json:"toBank"`
		CurrentValue       decimal.NullDecimal `json:"currentValue"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	id, err := decodeID(temp.ID)
	if err != nil {
		return err
	}
	*t = Transaction{
		ID:                 id,
		Timestamp:          firstTime(temp.Timestamp, temp.Date),
		Kind:               firstOf(temp.Kind, temp.Type),
		Amount:             temp.Amount,
		Description:        temp.Description,
		SourceAccount:      firstOf(temp.SourceAccount, temp.Bank),
		DestinationAccount: firstOf(temp.DestinationAccount, temp.ToBank),
		CurrentValue:       temp.CurrentValue,
	}
	switch t.Kind {
	case KindInvestment:
		if !t.CurrentValue.Valid {
			t.CurrentValue = decimal.NewNullDecimal(t.Amount)
		}
	case KindTransfer:
		t.CurrentValue = decimal.NullDecimal{}
	default:
		t.CurrentValue = decimal.NullDecimal{}
		t.DestinationAccount = ""
	}
	return nil
}

// decodeID reads an id persisted either as a string or as a number.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid id %s: %w", raw, err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid id %s: %w", raw, err)
	}
	return n.String(), nil
}

func firstOf[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

func firstTime(values ...time.Time) time.Time {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return time.Time{}
}
