package pattern

import (
	"unicode/utf8"
)

// shorthandTokens maps the letter following a backslash to its shorthand token.
var shorthandTokens = map[rune]TokenType{
	'w': TokenShortWord,
	'W': TokenShortNotWord,
	'd': TokenShortDigit,
	'D': TokenShortNotDigit,
	's': TokenShortSpace,
	'S': TokenShortNotSpace,
	'x': TokenShortHex,
	'p': TokenShortProperty,
}

// Lexer scans a pattern and produces tokens. Classification depends on
// whether a character class is open, so the lexer tracks that state together
// with the stack of open groups.
//
// The whole input is scanned and validated on first use: a structural error
// is reported at the first offending token and no partial token stream is
// ever returned.
type Lexer struct {
	input    string // the entire pattern
	position int    // current reading position in input
	tokens   []Token

	inClass    bool
	classStart int   // position of the '[' that opened the current class
	groups     []int // positions of unmatched '('

	scanned bool
	err     error
	cursor  int
}

// NewLexer returns a new Lexer for the given pattern.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0, len(input)+1),
	}
}

// Tokenize scans the entire input and returns the token list, terminated by
// a TokenEOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	if l.scanned {
		return l.tokens, l.err
	}
	l.scanned = true

	if err := l.scan(); err != nil {
		l.tokens = nil
		l.err = err
		return nil, err
	}
	return l.tokens, nil
}

// Next returns the token under the cursor and advances past it. Once the
// end of input is reached it keeps returning the EOF token.
func (l *Lexer) Next() (Token, error) {
	tokens, err := l.Tokenize()
	if err != nil {
		return Token{}, err
	}
	tok := tokens[l.cursor]
	if l.cursor < len(tokens)-1 {
		l.cursor++
	}
	return tok, nil
}

// Lookahead returns the token under the cursor without consuming it.
func (l *Lexer) Lookahead() (Token, error) {
	tokens, err := l.Tokenize()
	if err != nil {
		return Token{}, err
	}
	return tokens[l.cursor], nil
}

func (l *Lexer) scan() error {
	for l.position < len(l.input) {
		start := l.position
		r, size := utf8.DecodeRuneInString(l.input[start:])
		if r == utf8.RuneError && size == 1 {
			return newError(LexError, start, start+1, "invalid UTF-8 byte 0x%02x", l.input[start])
		}
		l.position += size

		var err error
		switch {
		case r == '\\':
			err = l.lexEscape(start)
		case l.inClass:
			err = l.lexClassRune(r, start)
		default:
			err = l.lexRune(r, start)
		}
		if err != nil {
			return err
		}
	}

	if l.inClass {
		return newError(LexError, l.classStart, len(l.input), "character class not closed")
	}
	if n := len(l.groups); n > 0 {
		pos := l.groups[n-1]
		return newError(LexError, pos, pos+1, `opening group "(" has no matching closing character`)
	}

	l.addToken(TokenEOF, "", l.position)
	return nil
}

// lexEscape emits the escape marker and classifies the escaped character.
// Shorthand letters keep their meaning in both contexts; anything else loses
// its special meaning and becomes a literal.
func (l *Lexer) lexEscape(start int) error {
	l.addToken(TokenEscape, `\`, start)

	if l.position >= len(l.input) {
		return newError(LexError, start, start+1, "trailing backslash has nothing to escape")
	}
	next := l.position
	r, size := utf8.DecodeRuneInString(l.input[next:])
	if r == utf8.RuneError && size == 1 {
		return newError(LexError, next, next+1, "invalid UTF-8 byte 0x%02x", l.input[next])
	}
	l.position += size

	if typ, ok := shorthandTokens[r]; ok {
		l.addToken(typ, string(r), next)
		return nil
	}
	l.addToken(TokenLiteralChar, string(r), next)
	return nil
}

// lexClassRune classifies a character inside [...]. Only ']', '-' and a
// leading '^' are special there.
func (l *Lexer) lexClassRune(r rune, start int) error {
	switch r {
	case ']':
		l.inClass = false
		l.addToken(TokenSetClose, "]", start)
	case '[':
		return newError(LexError, start, start+1, "can't have a second character class while first remains open")
	case '^':
		if l.lastType() == TokenSetOpen {
			l.addToken(TokenSetNegated, "^", start)
		} else {
			l.addToken(TokenLiteralChar, "^", start)
		}
	case '-':
		l.addToken(TokenSetRange, "-", start)
	default:
		l.addLiteral(r, start)
	}
	return nil
}

// lexRune classifies a character outside of a character class.
func (l *Lexer) lexRune(r rune, start int) error {
	switch r {
	case '[':
		l.inClass = true
		l.classStart = start
		l.addToken(TokenSetOpen, "[", start)
	case ']':
		return newError(LexError, start, start+1, "can't close a character class while none is open")
	case '(':
		l.groups = append(l.groups, start)
		l.addToken(TokenGroupOpen, "(", start)
	case ')':
		if len(l.groups) == 0 {
			return newError(LexError, start, start+1, `closing group ")" has no matching opening character`)
		}
		l.groups = l.groups[:len(l.groups)-1]
		l.addToken(TokenGroupClose, ")", start)
	case '|':
		l.addToken(TokenChoiceBar, "|", start)
	case '{':
		l.addToken(TokenQuantifierOpen, "{", start)
	case '}':
		l.addToken(TokenQuantifierClose, "}", start)
	case '*':
		l.addToken(TokenQuantifierStar, "*", start)
	case '+':
		l.addToken(TokenQuantifierPlus, "+", start)
	case '?':
		l.addToken(TokenQuantifierQuestion, "?", start)
	case '.':
		l.addToken(TokenDot, ".", start)
	case '^':
		l.addToken(TokenStartAnchor, "^", start)
	case '$':
		l.addToken(TokenEndAnchor, "$", start)
	default:
		l.addLiteral(r, start)
	}
	return nil
}

func (l *Lexer) addLiteral(r rune, pos int) {
	if r >= '0' && r <= '9' {
		l.addToken(TokenLiteralNumeric, string(r), pos)
		return
	}
	l.addToken(TokenLiteralChar, string(r), pos)
}

func (l *Lexer) lastType() TokenType {
	if len(l.tokens) == 0 {
		return TokenEOF
	}
	return l.tokens[len(l.tokens)-1].Type
}

// addToken is a helper to append a new token to the lexer's token list.
func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: pos,
	})
}
