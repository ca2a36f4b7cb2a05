package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// NodeID indexes a node in its AST arena.
type NodeID int32

// NodeType defines the node kinds of the AST.
type NodeType int

const (
	NodeLiteral NodeType = iota
	NodeDot
	NodeShorthand
	NodeProperty
	NodeCharSet
	NodeSequence
	NodeAlternation
	NodeAnchor
)

func (t NodeType) String() string {
	switch t {
	case NodeLiteral:
		return "Literal"
	case NodeDot:
		return "Dot"
	case NodeShorthand:
		return "Shorthand"
	case NodeProperty:
		return "Property"
	case NodeCharSet:
		return "CharSet"
	case NodeSequence:
		return "Sequence"
	case NodeAlternation:
		return "Alternation"
	case NodeAnchor:
		return "Anchor"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Unbounded marks a quantifier without an upper bound.
const Unbounded = -1

// MaxRepeat is the largest explicit repeat bound the parser accepts.
const MaxRepeat = 1000

// Quantifier holds the repeat bounds attached to a node.
type Quantifier struct {
	Min int
	Max int // Unbounded for *, + and {m,}
}

var (
	// Once is the implicit {1,1} quantifier.
	Once = Quantifier{Min: 1, Max: 1}

	star     = Quantifier{Min: 0, Max: Unbounded}
	plus     = Quantifier{Min: 1, Max: Unbounded}
	optional = Quantifier{Min: 0, Max: 1}
)

func (q Quantifier) IsUnbounded() bool { return q.Max == Unbounded }

func (q Quantifier) String() string {
	switch {
	case q == Once:
		return ""
	case q == star:
		return "*"
	case q == plus:
		return "+"
	case q == optional:
		return "?"
	case q.IsUnbounded():
		return fmt.Sprintf("{%d,}", q.Min)
	case q.Min == q.Max:
		return fmt.Sprintf("{%d}", q.Min)
	default:
		return fmt.Sprintf("{%d,%d}", q.Min, q.Max)
	}
}

// Node is implemented by every AST node. The set of implementations is closed:
// Literal, Dot, Shorthand, Property, CharSet, Sequence, Alternation and Anchor.
type Node interface {
	Type() NodeType
	Position() int
	Quantifier() Quantifier
	String() string

	setQuantifier(q Quantifier)
}

var (
	_ Node = (*Literal)(nil)
	_ Node = (*Dot)(nil)
	_ Node = (*Shorthand)(nil)
	_ Node = (*Property)(nil)
	_ Node = (*CharSet)(nil)
	_ Node = (*Sequence)(nil)
	_ Node = (*Alternation)(nil)
	_ Node = (*Anchor)(nil)
)

type base struct {
	pos   int
	quant Quantifier
}

func newBase(pos int) base { return base{pos: pos, quant: Once} }

func (b *base) Position() int { return b.pos }
func (b *base) Quantifier() Quantifier { return b.quant }
func (b *base) setQuantifier(q Quantifier) { b.quant = q }

// Literal emits exactly one character.
type Literal struct {
	base
	Char rune
}

func (l *Literal) Type() NodeType { return NodeLiteral }
func (l *Literal) String() string {
	return fmt.Sprintf("Literal(%s)%s", quoteRune(l.Char), l.quant)
}

// Dot emits one character of the alphabet other than newline.
type Dot struct {
	base
}

func (d *Dot) Type() NodeType { return NodeDot }
func (d *Dot) String() string { return "Dot" + d.quant.String() }

// ShorthandClass names a predefined character class.
type ShorthandClass int

const (
	ClassWord ShorthandClass = iota
	ClassNotWord
	ClassDigit
	ClassNotDigit
	ClassSpace
	ClassNotSpace
)

func (c ShorthandClass) String() string {
	switch c {
	case ClassWord:
		return `\w`
	case ClassNotWord:
		return `\W`
	case ClassDigit:
		return `\d`
	case ClassNotDigit:
		return `\D`
	case ClassSpace:
		return `\s`
	case ClassNotSpace:
		return `\S`
	default:
		return fmt.Sprintf("ShorthandClass(%d)", int(c))
	}
}

// Negated reports whether the class is the complement of a positive class.
func (c ShorthandClass) Negated() bool {
	return c == ClassNotWord || c == ClassNotDigit || c == ClassNotSpace
}

// Shorthand is a \w, \W, \d, \D, \s or \S atom.
type Shorthand struct {
	base
	Class ShorthandClass
}

func (s *Shorthand) Type() NodeType { return NodeShorthand }
func (s *Shorthand) String() string {
	return fmt.Sprintf("Shorthand(%s)%s", s.Class, s.quant)
}

// Property is a \p{Name} atom backed by a unicode category or script table.
type Property struct {
	base
	Name  string
	Table *unicode.RangeTable
}

func (p *Property) Type() NodeType { return NodeProperty }
func (p *Property) String() string {
	return fmt.Sprintf("Property(%s)%s", p.Name, p.quant)
}

// MemberKind tells which field of a Member is meaningful.
type MemberKind int

const (
	MemberRune MemberKind = iota
	MemberRange
	MemberShorthand
	MemberProperty
)

// Member is one entry of a character class.
type Member struct {
	Kind     MemberKind
	Lo, Hi   rune           // MemberRune uses Lo only
	Class    ShorthandClass // MemberShorthand
	Property string         // MemberProperty
	Table    *unicode.RangeTable
}

func (m Member) String() string {
	switch m.Kind {
	case MemberRune:
		return quoteRune(m.Lo)
	case MemberRange:
		return quoteRune(m.Lo) + "-" + quoteRune(m.Hi)
	case MemberShorthand:
		return m.Class.String()
	case MemberProperty:
		return `\p{` + m.Property + `}`
	default:
		return "?"
	}
}

// CharSet is a bracketed character class. Negation is resolved by the
// generator against its alphabet.
type CharSet struct {
	base
	Members []Member
	Negated bool
}

func (c *CharSet) Type() NodeType { return NodeCharSet }
func (c *CharSet) String() string {
	parts := make([]string, len(c.Members))
	for i, m := range c.Members {
		parts[i] = m.String()
	}
	neg := ""
	if c.Negated {
		neg = "^"
	}
	return fmt.Sprintf("CharSet[%s%s]%s", neg, strings.Join(parts, " "), c.quant)
}

// Sequence concatenates its children in order.
type Sequence struct {
	base
	Children []NodeID
}

func (s *Sequence) Type() NodeType { return NodeSequence }
func (s *Sequence) String() string {
	return fmt.Sprintf("Sequence(%d children)%s", len(s.Children), s.quant)
}

// Alternation picks exactly one of its branches. Every branch is a Sequence.
type Alternation struct {
	base
	Branches []NodeID
}

func (a *Alternation) Type() NodeType { return NodeAlternation }
func (a *Alternation) String() string {
	return fmt.Sprintf("Alternation(%d branches)%s", len(a.Branches), a.quant)
}

// AnchorKind distinguishes ^ from $.
type AnchorKind int

const (
	AnchorStart AnchorKind = iota
	AnchorEnd
)

// Anchor is a position marker. It never emits characters.
type Anchor struct {
	base
	Kind AnchorKind
}

func (a *Anchor) Type() NodeType { return NodeAnchor }
func (a *Anchor) String() string {
	if a.Kind == AnchorStart {
		return "Anchor(^)" + a.quant.String()
	}
	return "Anchor($)" + a.quant.String()
}

// AST is the parse result of one pattern. Nodes live in an arena and
// composite nodes refer to their children by NodeID. A child is always
// allocated before its parent, so the tree cannot contain cycles.
// An AST is never modified after Compile returns.
type AST struct {
	source string
	nodes  []Node
	root   NodeID
}

// Root returns the id of the top-level node.
func (a *AST) Root() NodeID { return a.root }

// Node returns the node stored under id.
func (a *AST) Node(id NodeID) Node { return a.nodes[id] }

// Len returns the number of nodes in the arena.
func (a *AST) Len() int { return len(a.nodes) }

// Source returns the pattern the AST was compiled from.
func (a *AST) Source() string { return a.source }

func (a *AST) alloc(n Node) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// String renders the tree with one node per line, children indented.
func (a *AST) String() string {
	if len(a.nodes) == 0 {
		return ""
	}
	var b strings.Builder
	a.write(&b, a.root, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (a *AST) write(b *strings.Builder, id NodeID, depth int) {
	node := a.nodes[id]
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(node.String())
	b.WriteByte('\n')

	var children []NodeID
	switch n := node.(type) {
	case *Sequence:
		children = n.Children
	case *Alternation:
		children = n.Branches
	}
	for _, child := range children {
		a.write(b, child, depth+1)
	}
}

func quoteRune(r rune) string { return strconv.QuoteRune(r) }
