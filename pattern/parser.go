package pattern

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser consumes the tokens produced by the lexer and builds an AST by
// recursive descent:
//
//	pattern         := alternation
//	alternation     := sequence ('|' sequence)*
//	sequence        := quantified_atom*
//	quantified_atom := atom quantifier?
//	atom            := literal | dot | anchor | escape | charclass | group
//	group           := '(' alternation ')'
//	charclass       := '[' '^'? class_member+ ']'
//	class_member    := literal | literal '-' literal | escape
//	quantifier      := ('*' | '+' | '?' | '{' number (',' number?)? '}') ('?' | '+')?
type Parser struct {
	tokens  []Token
	current int
	ast     *AST
}

// NewParser creates a new Parser over a token list produced by Lexer.Tokenize.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		end := 0
		if n := len(tokens); n > 0 {
			end = tokens[n-1].end()
		}
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Type: TokenEOF, Position: end})
	}
	return &Parser{tokens: tokens}
}

// Compile tokenizes and parses a pattern. Lexer errors are returned unchanged;
// no partial AST is returned on failure.
func Compile(pattern string) (*AST, error) {
	tokens, err := NewLexer(pattern).Tokenize()
	if err != nil {
		return nil, err
	}
	ast, err := NewParser(tokens).Parse()
	if err != nil {
		return nil, err
	}
	ast.source = pattern
	return ast, nil
}

// MustCompile is like Compile but panics on error. It is meant for patterns
// known at compile time.
func MustCompile(pattern string) *AST {
	ast, err := Compile(pattern)
	if err != nil {
		panic("pattern: Compile(" + strconv.Quote(pattern) + "): " + err.Error())
	}
	return ast
}

// Parse processes all tokens and builds the AST.
func (p *Parser) Parse() (*AST, error) {
	p.ast = &AST{nodes: make([]Node, 0, len(p.tokens))}
	p.current = 0

	root, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		// only reachable with a hand-built stream; the lexer rejects a stray ')'
		return nil, p.errorf(tok, "unexpected %s", tok.Type)
	}
	if err := p.checkAnchors(root, true, true); err != nil {
		return nil, err
	}
	p.ast.root = root
	return p.ast, nil
}

func (p *Parser) parseAlternation() (NodeID, error) {
	start := p.peek().Position
	first, err := p.parseSequence()
	if err != nil {
		return 0, err
	}
	if p.peek().Type != TokenChoiceBar {
		return first, nil
	}

	branches := []NodeID{first}
	for p.peek().Type == TokenChoiceBar {
		p.advance()
		branch, err := p.parseSequence()
		if err != nil {
			return 0, err
		}
		branches = append(branches, branch)
	}
	return p.ast.alloc(&Alternation{base: newBase(start), Branches: branches}), nil
}

func (p *Parser) parseSequence() (NodeID, error) {
	start := p.peek().Position
	var children []NodeID

	for {
		tok := p.peek()
		switch tok.Type {
		case TokenEOF, TokenChoiceBar, TokenGroupClose:
			return p.ast.alloc(&Sequence{base: newBase(start), Children: children}), nil
		}

		if tok.Type.IsQuantifier() {
			return 0, p.errorf(tok, "quantifier %q has nothing to repeat", tok.Value)
		}

		id, err := p.parseAtom()
		if err != nil {
			return 0, err
		}
		if err := p.parseQuantifier(id); err != nil {
			return 0, err
		}
		children = append(children, id)
	}
}

// checkAnchors rejects anchors that cannot sit at a boundary of the string.
// atStart and atEnd report whether the text produced by id is certain to
// begin, respectively end, the output. Inside a sequence only zero-width
// siblings may precede a '^' or follow a '$', and a repeated node loses both
// boundaries for its content.
func (p *Parser) checkAnchors(id NodeID, atStart, atEnd bool) error {
	n := p.ast.nodes[id]
	if q := n.Quantifier(); (q.IsUnbounded() || q.Max > 1) && !p.zeroWidth(id) {
		atStart, atEnd = false, false
	}

	switch n := n.(type) {
	case *Anchor:
		if (n.Kind == AnchorStart && !atStart) || (n.Kind == AnchorEnd && !atEnd) {
			pos := n.Position()
			return newError(ParseError, pos, pos+1, "anchor %s is not at a boundary of the pattern", anchorString(n.Kind))
		}
	case *Sequence:
		for i, child := range n.Children {
			start := atStart && p.allZeroWidth(n.Children[:i])
			end := atEnd && p.allZeroWidth(n.Children[i+1:])
			if err := p.checkAnchors(child, start, end); err != nil {
				return err
			}
		}
	case *Alternation:
		for _, branch := range n.Branches {
			if err := p.checkAnchors(branch, atStart, atEnd); err != nil {
				return err
			}
		}
	}
	return nil
}

// zeroWidth reports whether id always produces the empty string.
func (p *Parser) zeroWidth(id NodeID) bool {
	n := p.ast.nodes[id]
	if n.Quantifier().Max == 0 {
		return true
	}
	switch n := n.(type) {
	case *Anchor:
		return true
	case *Sequence:
		return p.allZeroWidth(n.Children)
	case *Alternation:
		return p.allZeroWidth(n.Branches)
	}
	return false
}

func (p *Parser) allZeroWidth(ids []NodeID) bool {
	for _, id := range ids {
		if !p.zeroWidth(id) {
			return false
		}
	}
	return true
}

func (p *Parser) parseAtom() (NodeID, error) {
	tok := p.advance()

	switch tok.Type {
	case TokenLiteralChar, TokenLiteralNumeric, TokenQuantifierClose:
		// a '}' that does not close a quantifier stands for itself
		return p.ast.alloc(&Literal{base: newBase(tok.Position), Char: decodeRune(tok.Value)}), nil
	case TokenDot:
		return p.ast.alloc(&Dot{base: newBase(tok.Position)}), nil
	case TokenStartAnchor:
		return p.ast.alloc(&Anchor{base: newBase(tok.Position), Kind: AnchorStart}), nil
	case TokenEndAnchor:
		return p.ast.alloc(&Anchor{base: newBase(tok.Position), Kind: AnchorEnd}), nil
	case TokenEscape:
		m, err := p.parseEscape(tok)
		if err != nil {
			return 0, err
		}
		return p.ast.alloc(memberNode(m, tok.Position)), nil
	case TokenSetOpen:
		return p.parseCharSet(tok)
	case TokenGroupOpen:
		return p.parseGroup(tok)
	default:
		return 0, p.errorf(tok, "unexpected %s", tok.Type)
	}
}

// parseGroup parses the alternation between '(' and ')'. A group has no node
// of its own: a quantifier after it attaches to the inner node.
func (p *Parser) parseGroup(open Token) (NodeID, error) {
	id, err := p.parseAlternation()
	if err != nil {
		return 0, err
	}
	if p.peek().Type != TokenGroupClose {
		return 0, newError(ParseError, open.Position, open.end(), `opening group "(" has no matching closing character`)
	}
	p.advance()
	return id, nil
}

func (p *Parser) parseCharSet(open Token) (NodeID, error) {
	set := &CharSet{base: newBase(open.Position)}
	if p.peek().Type == TokenSetNegated {
		p.advance()
		set.Negated = true
	}

	for {
		tok := p.peek()
		if tok.Type == TokenSetClose {
			p.advance()
			break
		}
		if tok.Type == TokenEOF {
			return 0, newError(ParseError, open.Position, tok.Position, "character class not closed")
		}
		m, err := p.parseClassMember()
		if err != nil {
			return 0, err
		}
		set.Members = append(set.Members, m)
	}

	if len(set.Members) == 0 {
		return 0, newError(ParseError, open.Position, p.previous().end(), "empty character class")
	}
	return p.ast.alloc(set), nil
}

// parseClassMember parses a single character, a range or an escape inside
// [...]. A '-' at either end of the class is a literal dash.
func (p *Parser) parseClassMember() (Member, error) {
	lo, err := p.parseClassAtom()
	if err != nil {
		return Member{}, err
	}
	if p.peek().Type != TokenSetRange || p.peekAt(1).Type == TokenSetClose {
		return lo, nil
	}

	dash := p.advance()
	hi, err := p.parseClassAtom()
	if err != nil {
		return Member{}, err
	}
	if lo.Kind != MemberRune || hi.Kind != MemberRune {
		return Member{}, newError(ParseError, dash.Position, dash.end(), "invalid range: endpoints must be single characters")
	}
	if lo.Lo > hi.Lo {
		return Member{}, newError(ParseError, dash.Position, dash.end(), "invalid range %s-%s: start is greater than end", quoteRune(lo.Lo), quoteRune(hi.Lo))
	}
	return Member{Kind: MemberRange, Lo: lo.Lo, Hi: hi.Lo}, nil
}

func (p *Parser) parseClassAtom() (Member, error) {
	tok := p.advance()
	switch tok.Type {
	case TokenEscape:
		return p.parseEscape(tok)
	case TokenEOF:
		return Member{}, p.errorf(tok, "character class not closed")
	default:
		// inside a class every other token, '-' included, is a plain character
		return runeMember(decodeRune(tok.Value)), nil
	}
}

// parseEscape parses what follows a backslash. The result is a single rune,
// a shorthand class or a unicode property.
func (p *Parser) parseEscape(esc Token) (Member, error) {
	tok := p.advance()
	if class, ok := tok.Type.shorthandClass(); ok {
		return Member{Kind: MemberShorthand, Class: class}, nil
	}

	switch tok.Type {
	case TokenShortHex:
		r, err := p.parseHex(esc)
		if err != nil {
			return Member{}, err
		}
		return runeMember(r), nil
	case TokenShortProperty:
		return p.parseProperty(esc)
	case TokenLiteralChar, TokenLiteralNumeric:
		return runeMember(escapedRune(decodeRune(tok.Value))), nil
	default:
		return Member{}, newError(ParseError, esc.Position, tok.end(), "invalid escape sequence")
	}
}

// parseHex reads \xHH or \x{H...}.
func (p *Parser) parseHex(esc Token) (rune, error) {
	var digits strings.Builder
	if isOpenBrace(p.peek()) {
		p.advance()
		for isHexDigit(p.peek()) {
			digits.WriteString(p.advance().Value)
		}
		if !isCloseBrace(p.peek()) {
			return 0, newError(ParseError, esc.Position, p.peek().Position, `hex escape \x{...} is not terminated`)
		}
		p.advance()
		if digits.Len() == 0 || digits.Len() > 8 {
			return 0, newError(ParseError, esc.Position, p.previous().end(), "hex escape needs between 1 and 8 digits")
		}
	} else {
		for i := 0; i < 2; i++ {
			if !isHexDigit(p.peek()) {
				return 0, newError(ParseError, esc.Position, p.peek().Position, `hex escape \x needs two hex digits`)
			}
			digits.WriteString(p.advance().Value)
		}
	}

	var v int64
	for _, c := range digits.String() {
		v = v<<4 | int64(hexValue(c))
	}
	if v > unicode.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, newError(ParseError, esc.Position, p.previous().end(), "hex escape %s is not a valid code point", digits.String())
	}
	return rune(v), nil
}

// parseProperty reads \pL or \p{Name}. Names are unicode categories (L, Lu,
// Nd, ...) or scripts (Greek, Han, ...).
func (p *Parser) parseProperty(esc Token) (Member, error) {
	var name strings.Builder
	if isOpenBrace(p.peek()) {
		p.advance()
		for isNameChar(p.peek()) {
			name.WriteString(p.advance().Value)
		}
		if !isCloseBrace(p.peek()) {
			return Member{}, newError(ParseError, esc.Position, p.peek().Position, `property \p{...} is not terminated`)
		}
		p.advance()
	} else if tok := p.peek(); tok.Type == TokenLiteralChar && isLetter(tok.Value) {
		name.WriteString(p.advance().Value)
	}

	table := lookupProperty(name.String())
	if table == nil {
		return Member{}, newError(ParseError, esc.Position, p.previous().end(), "unknown unicode property %q", name.String())
	}
	return Member{Kind: MemberProperty, Property: name.String(), Table: table}, nil
}

// parseQuantifier reads an optional quantifier and attaches its bounds to the
// node built for the preceding atom. A single trailing '?' or '+' (lazy or
// possessive modifier) is accepted and has no effect on the repeat count.
func (p *Parser) parseQuantifier(id NodeID) error {
	tok := p.peek()
	if !tok.Type.IsQuantifier() {
		return nil
	}

	var q Quantifier
	switch tok.Type {
	case TokenQuantifierStar:
		p.advance()
		q = star
	case TokenQuantifierPlus:
		p.advance()
		q = plus
	case TokenQuantifierQuestion:
		p.advance()
		q = optional
	case TokenQuantifierOpen:
		var err error
		if q, err = p.parseBounds(); err != nil {
			return err
		}
	}
	p.ast.nodes[id].setQuantifier(q)

	if t := p.peek().Type; t == TokenQuantifierQuestion || t == TokenQuantifierPlus {
		p.advance()
	}
	if next := p.peek(); next.Type.IsQuantifier() {
		return newError(ParseError, tok.Position, next.end(), "nested quantifier %q", next.Value)
	}
	return nil
}

// parseBounds reads {m}, {m,} or {m,n}.
func (p *Parser) parseBounds() (Quantifier, error) {
	open := p.advance()

	lo, ok, err := p.parseNumber(open)
	if err != nil {
		return Quantifier{}, err
	}
	if !ok {
		return Quantifier{}, p.boundsError(open, "quantifier bounds must start with a number")
	}

	hi := lo
	if tok := p.peek(); tok.Type == TokenLiteralChar && tok.Value == "," {
		p.advance()
		n, ok, err := p.parseNumber(open)
		if err != nil {
			return Quantifier{}, err
		}
		if ok {
			hi = n
		} else {
			hi = Unbounded
		}
	}

	if p.peek().Type != TokenQuantifierClose {
		return Quantifier{}, p.boundsError(open, "malformed quantifier: expected '}'")
	}
	p.advance()

	if hi != Unbounded && lo > hi {
		return Quantifier{}, newError(ParseError, open.Position, p.previous().end(), "quantifier min %d is greater than max %d", lo, hi)
	}
	return Quantifier{Min: lo, Max: hi}, nil
}

// parseNumber reads a run of digits. ok is false when no digit follows.
func (p *Parser) parseNumber(open Token) (n int, ok bool, err error) {
	for p.peek().Type == TokenLiteralNumeric {
		tok := p.advance()
		n = n*10 + int(tok.Value[0]-'0')
		if n > MaxRepeat {
			return 0, false, newError(ParseError, open.Position, tok.end(), "repeat count exceeds maximum of %d", MaxRepeat)
		}
		ok = true
	}
	return n, ok, nil
}

// boundsError reports a malformed quantifier spanning from '{' to the end of
// the quantifier body.
func (p *Parser) boundsError(open Token, msg string) *Error {
	end := p.peek().Position
	for i := p.current; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		if tok.Type == TokenQuantifierClose {
			end = tok.end()
			break
		}
		if tok.Type == TokenEOF {
			end = tok.Position
			break
		}
	}
	return newError(ParseError, open.Position, end, "%s", msg)
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) Token {
	i := p.current + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// advance returns the current token and moves past it. The trailing EOF
// token is never consumed.
func (p *Parser) advance() Token {
	tok := p.tokens[p.current]
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return tok
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) errorf(tok Token, format string, args ...any) *Error {
	return newError(ParseError, tok.Position, tok.end(), format, args...)
}

func memberNode(m Member, pos int) Node {
	switch m.Kind {
	case MemberShorthand:
		return &Shorthand{base: newBase(pos), Class: m.Class}
	case MemberProperty:
		return &Property{base: newBase(pos), Name: m.Property, Table: m.Table}
	default:
		return &Literal{base: newBase(pos), Char: m.Lo}
	}
}

func runeMember(r rune) Member {
	return Member{Kind: MemberRune, Lo: r, Hi: r}
}

// escapedRune maps the control escapes \a, \n, \t, \r, \f and \v to their
// characters. Every other escaped character stands for itself.
func escapedRune(r rune) rune {
	switch r {
	case 'a':
		return '\a'
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	}
	return r
}

func lookupProperty(name string) *unicode.RangeTable {
	if name == "" {
		return nil
	}
	if t, ok := unicode.Categories[name]; ok {
		return t
	}
	if t, ok := unicode.Scripts[name]; ok {
		return t
	}
	return nil
}

func decodeRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func isOpenBrace(tok Token) bool {
	return tok.Type == TokenQuantifierOpen || (tok.Type == TokenLiteralChar && tok.Value == "{")
}

func isCloseBrace(tok Token) bool {
	return tok.Type == TokenQuantifierClose || (tok.Type == TokenLiteralChar && tok.Value == "}")
}

func isHexDigit(tok Token) bool {
	if !tok.Type.IsLiteral() || len(tok.Value) != 1 {
		return false
	}
	return hexValue(rune(tok.Value[0])) >= 0
}

func hexValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func isNameChar(tok Token) bool {
	if !tok.Type.IsLiteral() {
		return false
	}
	r := decodeRune(tok.Value)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isLetter(s string) bool {
	return unicode.IsLetter(decodeRune(s))
}

func anchorString(k AnchorKind) string {
	if k == AnchorStart {
		return `"^"`
	}
	return `"$"`
}
