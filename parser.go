package financechat

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// amountPattern matches "r$ 12,50", "12,50 reais" or a bare number surrounded
// by spaces, in this order of preference for a given position.
var amountPattern = regexp.MustCompile(`r\$\s*(\d+(?:[.,]\d+)?)|(\d+(?:[.,]\d+)?)\s*reais|\s(\d+(?:[.,]\d+)?)\s`)

// currencyPattern matches explicit monetary values, removed from descriptions.
var currencyPattern = regexp.MustCompile(`r\$\s*\d+(?:[.,]\d+)?|\d+(?:[.,]\d+)?\s*reais`)

// kindRules is the ordered list of keywords identifying a kind, first match wins.
var kindRules = []struct {
	keywords []string
	kind     Kind
}{
	{[]string{"recebi", "receb", "salário", "salario"}, KindIncome},
	{[]string{"gastei", "paguei", "comprei"}, KindExpense},
	{[]string{"transfer"}, KindTransfer},
	{[]string{"investi", "invest"}, KindInvestment},
}

// prepositions are dropped from descriptions.
var prepositions = []string{"no", "em", "do", "da", "de", "via"}

// Parser turns free text messages into transactions.
type Parser struct {
	Accounts []string         // Accounts are the known account names, in detection order.
	Now      func() time.Time // Now timestamps new transactions.
	NewID    func() string    // NewID identifies new transactions.
}

// NewParser returns a parser detecting the given accounts.
func NewParser(accounts []string) *Parser {
	return &Parser{
		Accounts: accounts,
		Now:      time.Now,
		NewID:    NewID,
	}
}

// Parse parses text with a default parser, see [Parser.Parse].
func Parse(text string, accounts []string) (Transaction, error) {
	return NewParser(accounts).Parse(text)
}

// Parse converts a message like "Gastei R$ 50 no mercado" into a transaction.
//
// It returns a *ParseError when no amount, no kind or, for transfers, no
// destination account can be found.
func (p *Parser) Parse(text string) (Transaction, error) {
	clean := Sanitize(text)
	// padding lets the bare number alternative match at both ends.
	lower := " " + strings.ToLower(clean) + " "

	amount, amountText, reason := extractAmount(lower)
	if reason != 0 {
		return Transaction{}, &ParseError{Reason: reason, Input: text}
	}

	kind, keyword, ok := classify(lower)
	if !ok {
		return Transaction{}, &ParseError{Reason: UnrecognizedKind, Input: text}
	}

	var source, destination, description string
	switch kind {
	case KindTransfer:
		before, after, found := strings.Cut(lower, " para ")
		if !found {
			return Transaction{}, &ParseError{Reason: NoDestination, Input: text}
		}
		destination, ok = findAccount(after, p.Accounts)
		if !ok {
			return Transaction{}, &ParseError{Reason: NoDestination, Input: text}
		}
		source, ok = findAccount(before, p.Accounts)
		if !ok {
			source = p.account(lower)
		}
		description = TransferDescription
	default:
		source = p.account(lower)
		description = describe(lower, keyword, amountText, source)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	newID := NewID
	if p.NewID != nil {
		newID = p.NewID
	}
	return newTransaction(newID(), now(), kind, amount, description, source, destination), nil
}

// account returns the first known account in text, or the default one.
func (p *Parser) account(text string) string {
	if a, ok := findAccount(text, p.Accounts); ok {
		return a
	}
	return DefaultAccount
}

// extractAmount returns the first monetary value in text and the matched text,
// or the reason why there is none.
func extractAmount(text string) (decimal.Decimal, string, ParseReason) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, "", NoAmount
	}
	var raw string
	for _, g := range m[1:] {
		if g != "" {
			raw = g
			break
		}
	}
	d, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, "", InvalidAmount
	}
	return d, strings.TrimSpace(m[0]), 0
}

// classify returns the kind of the message and the keyword that identified it.
func classify(text string) (Kind, string, bool) {
	for _, r := range kindRules {
		for _, k := range r.keywords {
			if strings.Contains(text, k) {
				return r.kind, k, true
			}
		}
	}
	return "", "", false
}

// describe extracts a description from the part of text following keyword.
func describe(text, keyword, amountText, account string) string {
	_, rest, _ := strings.Cut(text, keyword)
	rest = currencyPattern.ReplaceAllString(rest, " ")
	if amountText != "" {
		rest = strings.Replace(rest, amountText, " ", 1)
	}
	if account != DefaultAccount {
		rest = strings.ReplaceAll(rest, strings.ToLower(account), " ")
	}

	words := strings.Fields(rest)
	words = slices.DeleteFunc(words, func(w string) bool {
		return slices.Contains(prepositions, w)
	})
	return capitalize(strings.Join(words, " "))
}

// capitalize upper cases the first letter of s, or returns the default description.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDescription
	}
	upper := cases.Upper(language.BrazilianPortuguese)
	for i := range s {
		if i > 0 {
			return upper.String(s[:i]) + s[i:]
		}
	}
	return upper.String(s)
}
