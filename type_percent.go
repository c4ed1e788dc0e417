package financechat

import (
	"fmt"
	"strings"
)

// Percent is a percentage, 12.5 means 12.5%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// String formats the percentage the brazilian way, "12,50%".
func (p Percent) String() string {
	return strings.Replace(fmt.Sprintf("%.2f%%", p), ".", ",", 1)
}

// SignedString is like String with an explicit sign, or "-" for zero.
func (p Percent) SignedString() string {
	res := strings.Replace(fmt.Sprintf("%+.2f%%", p), ".", ",", 1)
	if res == "+0,00%" || res == "-0,00%" {
		return "-"
	}
	return res
}
