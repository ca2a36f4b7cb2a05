package pattern

import "fmt"

// ErrorKind classifies compile failures.
type ErrorKind int

const (
	// LexError reports malformed pattern structure: unbalanced groups or classes,
	// stray closing delimiters, a dangling escape.
	LexError ErrorKind = iota
	// ParseError reports a structurally balanced pattern the grammar rejects,
	// such as a malformed quantifier.
	ParseError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by the lexer and the parser. Position and End delimit the
// offending span as byte offsets into the pattern.
type Error struct {
	Kind     ErrorKind
	Message  string
	Position int
	End      int
}

var (
	// ErrLex matches any lexer error with errors.Is.
	ErrLex = &Error{Kind: LexError}
	// ErrParse matches any parser error with errors.Is.
	ErrParse = &Error{Kind: ParseError}
)

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Position, e.Message)
}

// Is reports whether target is the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func newError(kind ErrorKind, start, end int, format string, args ...any) *Error {
	if end <= start {
		end = start + 1
	}
	return &Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Position: start,
		End:      end,
	}
}
