package financechat

import "strings"

// DefaultAccount is used when a message names no known account.
const DefaultAccount = "Conta Principal"

// DefaultAccounts returns the fixed set of known account names, in detection order.
func DefaultAccounts() []string {
	return []string{
		"Banco do Brasil",
		"Caixa",
		"Itaú",
		"Nubank",
		"Inter",
		"Santander",
		"Bradesco",
		"Outro",
	}
}

// findAccount returns the first account whose name appears in text, ignoring case.
func findAccount(text string, accounts []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, a := range accounts {
		if a == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(a)) {
			return a, true
		}
	}
	return "", false
}
