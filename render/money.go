// Package render produces print-ready output for a document: a plain
// text layout for terminals and an A4 PDF.
package render

import (
	"fmt"
	"strings"
)

// Money formats a currency amount with two decimals and thousands
// separators, e.g. 1234.5 -> "1,234.50".
func Money(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
