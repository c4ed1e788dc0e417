// Package assist classifies the messages the rule based parser does not
// understand, with a language model.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etnz/financechat"
)

// Classifier turns a free text message into a transaction suggestion.
type Classifier interface {
	Classify(ctx context.Context, text string, accounts []string) (Suggestion, error)
}

// ErrNotTransaction is returned when the message does not describe a transaction.
var ErrNotTransaction = errors.New("message is not a transaction")

// Suggestion is what a classifier understood of a message.
type Suggestion struct {
	Kind        financechat.Kind `json:"kind"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	Source      string           `json:"sourceAccount"`
	Destination string           `json:"destinationAccount,omitempty"`
}

// Transaction builds the transaction suggested. Accounts unknown to the
// registry fall back to the default account and the result is validated.
func (s Suggestion) Transaction(accounts []string) (financechat.Transaction, error) {
	if !s.Kind.Valid() {
		return financechat.Transaction{}, ErrNotTransaction
	}
	source := known(s.Source, accounts)
	if source == "" {
		source = financechat.DefaultAccount
	}
	dest := ""
	if s.Kind == financechat.KindTransfer {
		if dest = known(s.Destination, accounts); dest == "" {
			return financechat.Transaction{}, financechat.ErrNoDestination
		}
	}
	desc := strings.TrimSpace(financechat.Sanitize(s.Description))
	tx := financechat.NewTransaction(s.Kind, s.Amount, desc, source, dest)
	if err := tx.Validate(); err != nil {
		return financechat.Transaction{}, fmt.Errorf("invalid suggestion: %w", err)
	}
	return tx, nil
}

// known returns the registered spelling of name, or "".
func known(name string, accounts []string) string {
	name = strings.TrimSpace(name)
	for _, a := range accounts {
		if strings.EqualFold(a, name) {
			return a
		}
	}
	return ""
}

// decodeSuggestion reads the JSON answer of a model.
func decodeSuggestion(raw string) (Suggestion, error) {
	var payload struct {
		Kind        string      `json:"kind"`
		Amount      json.Number `json:"amount"`
		Description string      `json:"description"`
		Source      string      `json:"sourceAccount"`
		Destination string      `json:"destinationAccount"`
	}
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &payload); err != nil {
		return Suggestion{}, fmt.Errorf("cannot decode model answer: %w\nraw response: %s", err, raw)
	}
	if payload.Kind == "" || payload.Kind == "none" {
		return Suggestion{}, ErrNotTransaction
	}
	kind, err := financechat.ParseKind(payload.Kind)
	if err != nil {
		return Suggestion{}, err
	}
	amount, err := decimal.NewFromString(strings.Replace(payload.Amount.String(), ",", ".", 1))
	if err != nil {
		return Suggestion{}, fmt.Errorf("invalid amount %q", payload.Amount)
	}
	return Suggestion{
		Kind:        kind,
		Amount:      amount,
		Description: payload.Description,
		Source:      payload.Source,
		Destination: payload.Destination,
	}, nil
}

// cleanModelJSON removes the markdown fences models wrap JSON in, and any
// text around the object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		// drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
