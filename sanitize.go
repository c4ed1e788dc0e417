package financechat

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes all HTML tags.
var strictPolicy = bluemonday.StrictPolicy()

// Sanitize removes markup and non printable characters from user input.
func Sanitize(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' {
			return r
		}
		return -1
	}, s)
}

// formula characters trigger evaluation in spreadsheet applications.
func isFormulaStart(r byte) bool {
	switch r {
	case '=', '+', '-', '@', '\t', '\r':
		return true
	}
	return false
}

// guarded reports whether s is exported behind a single quote: it starts with
// a formula character, or with a quote that import would otherwise strip.
func guarded(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed != "" && (isFormulaStart(trimmed[0]) || trimmed[0] == '\'')
}

// guardFormula prefixes a cell with a single quote when it is guarded.
func guardFormula(s string) string {
	if !guarded(s) {
		return s
	}
	return "'" + s
}

// unguardFormula reverts guardFormula.
func unguardFormula(s string) string {
	rest, ok := strings.CutPrefix(s, "'")
	if !ok || !guarded(rest) {
		return s
	}
	return rest
}
