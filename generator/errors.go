package generator

import "fmt"

// Kind classifies generation failures.
type Kind int

const (
	// EmptyAlphabet means a dot, shorthand or character class resolved to no
	// candidate characters under the configured alphabet.
	EmptyAlphabet Kind = iota
	// InvalidQuantifierBounds means a quantifier's minimum exceeds its
	// effective maximum, typically {m,} with m above the repeat cap.
	InvalidQuantifierBounds
	// InvalidConfig means the Config itself is unusable.
	InvalidConfig
)

func (k Kind) String() string {
	switch k {
	case EmptyAlphabet:
		return "empty alphabet"
	case InvalidQuantifierBounds:
		return "invalid quantifier bounds"
	case InvalidConfig:
		return "invalid config"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by Generate. Position is the byte offset of the node that
// failed, or -1 when the failure is not tied to a node.
type Error struct {
	Kind     Kind
	Message  string
	Position int
}

var (
	ErrEmptyAlphabet           = &Error{Kind: EmptyAlphabet}
	ErrInvalidQuantifierBounds = &Error{Kind: InvalidQuantifierBounds}
	ErrInvalidConfig           = &Error{Kind: InvalidConfig}
)

func (e *Error) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("generation error: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("generation error at offset %d: %s: %s", e.Position, e.Kind, e.Message)
}

// Is reports whether target is the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func errorf(kind Kind, pos int, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	}
}
