package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnolang/rxgen/pattern"
)

// FormatTokens renders one token per line as "offset  type  value".
func FormatTokens(tokens []pattern.Token) string {
	width := len(strconv.Itoa(maxOffset(tokens)))
	typeWidth := 0
	for _, tok := range tokens {
		if n := len(tok.Type.String()); n > typeWidth {
			typeWidth = n
		}
	}

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(lineStyle.Sprintf("%*d", width, tok.Position))
		b.WriteString("  ")
		if tok.Type == pattern.TokenEOF {
			b.WriteString(ruleStyle.Sprintln(tok.Type))
			continue
		}
		b.WriteString(ruleStyle.Sprintf("%-*s", typeWidth, tok.Type))
		fmt.Fprintf(&b, "  %s\n", strconv.Quote(tok.Value))
	}
	return b.String()
}

func maxOffset(tokens []pattern.Token) int {
	m := 0
	for _, tok := range tokens {
		if tok.Position > m {
			m = tok.Position
		}
	}
	return m
}
