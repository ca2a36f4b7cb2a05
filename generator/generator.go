package generator

import (
	"strings"

	"github.com/gnolang/rxgen/pattern"
)

var (
	digitSet = NewRangeSet(Range{'0', '9'})
	wordSet  = NewRangeSet(Range{'0', '9'}, Range{'A', 'Z'}, Range{'_', '_'}, Range{'a', 'z'})
	spaceSet = RunesOf('\t', '\n', '\f', '\r', ' ')
	newline  = RunesOf('\n')
)

// Generate walks ast and returns one string it describes. Every random
// decision is drawn from src. The AST is only read, so one AST may be used
// by concurrent calls as long as each call has its own Source.
//
// On failure no partial output is returned.
func Generate(ast *pattern.AST, cfg Config, src Source) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	g := &generator{
		ast:      ast,
		cfg:      cfg,
		src:      src,
		alphabet: RunesOf(cfg.Alphabet...),
		sets:     make(map[pattern.NodeID]RangeSet),
	}
	if err := g.node(ast.Root()); err != nil {
		return "", err
	}
	return g.out.String(), nil
}

type generator struct {
	ast      *pattern.AST
	cfg      Config
	src      Source
	alphabet RangeSet
	sets     map[pattern.NodeID]RangeSet
	out      strings.Builder
}

// node emits the node under id as many times as its quantifier asks.
func (g *generator) node(id pattern.NodeID) error {
	n := g.ast.Node(id)
	if _, ok := n.(*pattern.Anchor); ok {
		return nil
	}

	count, err := g.count(n)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := g.atom(id, n); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) atom(id pattern.NodeID, n pattern.Node) error {
	switch n := n.(type) {
	case *pattern.Literal:
		g.out.WriteRune(n.Char)
		return nil
	case *pattern.Sequence:
		for _, child := range n.Children {
			if err := g.node(child); err != nil {
				return err
			}
		}
		return nil
	case *pattern.Alternation:
		branch := n.Branches[0]
		if len(n.Branches) > 1 {
			branch = n.Branches[g.src.IntRange(0, len(n.Branches)-1)]
		}
		return g.node(branch)
	case *pattern.Dot, *pattern.Shorthand, *pattern.Property, *pattern.CharSet:
		set, err := g.resolve(id, n)
		if err != nil {
			return err
		}
		g.out.WriteRune(g.pick(set))
		return nil
	default:
		// Anchors are filtered out by node.
		return nil
	}
}

// count draws the repetition count for n from [min, effective max].
func (g *generator) count(n pattern.Node) (int, error) {
	q := n.Quantifier()
	hi := q.Max
	if q.IsUnbounded() {
		hi = g.cfg.UnboundedRepeatCap
	}
	if q.Min > hi {
		return 0, errorf(InvalidQuantifierBounds, n.Position(),
			"minimum %d exceeds effective maximum %d", q.Min, hi)
	}
	if q.Min == hi {
		return hi, nil
	}
	return g.src.IntRange(q.Min, hi), nil
}

func (g *generator) pick(set RangeSet) rune {
	size := set.Len()
	if size == 1 {
		return set.At(0)
	}
	return set.At(g.src.IntRange(0, size-1))
}

// resolve returns the candidate set of a single-character node. Results are
// memoized per node for the duration of one Generate call.
func (g *generator) resolve(id pattern.NodeID, n pattern.Node) (RangeSet, error) {
	if set, ok := g.sets[id]; ok {
		return set, nil
	}

	var set RangeSet
	switch n := n.(type) {
	case *pattern.Dot:
		set = g.alphabet.Subtract(newline)
	case *pattern.Shorthand:
		set = g.shorthand(n.Class)
	case *pattern.Property:
		set = FromTable(n.Table)
	case *pattern.CharSet:
		for _, m := range n.Members {
			set = set.Union(g.member(m))
		}
		if n.Negated {
			set = g.alphabet.Subtract(set)
		}
	}

	if set.Len() == 0 {
		return nil, errorf(EmptyAlphabet, n.Position(), "%s has no candidate characters", n)
	}
	g.sets[id] = set
	return set, nil
}

func (g *generator) member(m pattern.Member) RangeSet {
	switch m.Kind {
	case pattern.MemberRune:
		return RunesOf(m.Lo)
	case pattern.MemberRange:
		return NewRangeSet(Range{m.Lo, m.Hi})
	case pattern.MemberShorthand:
		return g.shorthand(m.Class)
	case pattern.MemberProperty:
		return FromTable(m.Table)
	default:
		return nil
	}
}

// shorthand expands a shorthand class. Negated classes are complemented
// against the alphabet; positive classes are used as defined.
func (g *generator) shorthand(c pattern.ShorthandClass) RangeSet {
	switch c {
	case pattern.ClassWord:
		return wordSet
	case pattern.ClassNotWord:
		return g.alphabet.Subtract(wordSet)
	case pattern.ClassDigit:
		return digitSet
	case pattern.ClassNotDigit:
		return g.alphabet.Subtract(digitSet)
	case pattern.ClassSpace:
		return spaceSet
	case pattern.ClassNotSpace:
		return g.alphabet.Subtract(spaceSet)
	default:
		return nil
	}
}
