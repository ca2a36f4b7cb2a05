package pattern

import "fmt"

// TokenType defines the types of tokens produced by the lexer.
type TokenType int

const (
	TokenEOF                TokenType = iota // end of input
	TokenLiteralChar                         // any character without special meaning
	TokenLiteralNumeric                      // 0-9
	TokenEscape                              // '\'
	TokenSetOpen                             // '['
	TokenSetClose                            // ']'
	TokenSetNegated                          // '^' right after '['
	TokenSetRange                            // '-' inside a class
	TokenGroupOpen                           // '('
	TokenGroupClose                          // ')'
	TokenChoiceBar                           // '|'
	TokenQuantifierOpen                      // '{'
	TokenQuantifierClose                     // '}'
	TokenQuantifierStar                      // '*'
	TokenQuantifierPlus                      // '+'
	TokenQuantifierQuestion                  // '?'
	TokenDot                                 // '.'
	TokenStartAnchor                         // '^'
	TokenEndAnchor                           // '$'
	TokenShortWord                           // \w
	TokenShortNotWord                        // \W
	TokenShortDigit                          // \d
	TokenShortNotDigit                       // \D
	TokenShortSpace                          // \s
	TokenShortNotSpace                       // \S
	TokenShortHex                            // \x
	TokenShortProperty                       // \p
)

var tokenNames = [...]string{
	TokenEOF:                "EOF",
	TokenLiteralChar:        "LiteralChar",
	TokenLiteralNumeric:     "LiteralNumeric",
	TokenEscape:             "Escape",
	TokenSetOpen:            "SetOpen",
	TokenSetClose:           "SetClose",
	TokenSetNegated:         "SetNegated",
	TokenSetRange:           "SetRange",
	TokenGroupOpen:          "GroupOpen",
	TokenGroupClose:         "GroupClose",
	TokenChoiceBar:          "ChoiceBar",
	TokenQuantifierOpen:     "QuantifierOpen",
	TokenQuantifierClose:    "QuantifierClose",
	TokenQuantifierStar:     "QuantifierStar",
	TokenQuantifierPlus:     "QuantifierPlus",
	TokenQuantifierQuestion: "QuantifierQuestion",
	TokenDot:                "Dot",
	TokenStartAnchor:        "StartAnchor",
	TokenEndAnchor:          "EndAnchor",
	TokenShortWord:          "ShortWord",
	TokenShortNotWord:       "ShortNotWord",
	TokenShortDigit:         "ShortDigit",
	TokenShortNotDigit:      "ShortNotDigit",
	TokenShortSpace:         "ShortSpace",
	TokenShortNotSpace:      "ShortNotSpace",
	TokenShortHex:           "ShortHex",
	TokenShortProperty:      "ShortProperty",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsQuantifier reports whether the token starts a quantifier.
func (t TokenType) IsQuantifier() bool {
	switch t {
	case TokenQuantifierStar, TokenQuantifierPlus, TokenQuantifierQuestion, TokenQuantifierOpen:
		return true
	}
	return false
}

// IsLiteral reports whether the token carries a plain character.
func (t TokenType) IsLiteral() bool {
	return t == TokenLiteralChar || t == TokenLiteralNumeric
}

// shorthandClass maps shorthand class tokens to the class they denote.
// \x and \p are not classes and are handled by the parser separately.
func (t TokenType) shorthandClass() (ShorthandClass, bool) {
	switch t {
	case TokenShortWord:
		return ClassWord, true
	case TokenShortNotWord:
		return ClassNotWord, true
	case TokenShortDigit:
		return ClassDigit, true
	case TokenShortNotDigit:
		return ClassNotDigit, true
	case TokenShortSpace:
		return ClassSpace, true
	case TokenShortNotSpace:
		return ClassNotSpace, true
	}
	return 0, false
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType // type of this token
	Value    string    // the character consumed for this token
	Position int       // byte offset in the original pattern
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Value, t.Position)
}

// end returns the byte offset just after the token.
func (t Token) end() int {
	return t.Position + len(t.Value)
}
