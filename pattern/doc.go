/*
Package pattern provides the lexer and parser for the regular-expression-like
dialect that rxgen samples strings from.

# Overview

Compiling a pattern happens in two phases. The Lexer turns the pattern text
into a stream of typed tokens and validates its structure: balanced groups,
no nested character classes, no dangling escape. The Parser then consumes the
stream by recursive descent and builds an AST that the generator walks.

	ast, err := pattern.Compile(`[a-z]{3}-\d{4}`)
	if err != nil {
		// *pattern.Error with Kind LexError or ParseError
	}
	fmt.Println(ast)

# Token Types

The lexer is context sensitive: the same character is classified differently
inside and outside of a character class.

  - Outside a class: '[' opens a class, '(' and ')' delimit groups, '|' is a
    choice bar, '{' '}' '*' '+' '?' are quantifier tokens, '.' is a dot, '^'
    and '$' are anchors.

  - Inside a class: ']' closes the class, '-' marks a range and a '^' right
    after '[' negates it. Every other character is a literal.

  - In both contexts a backslash yields an escape token. The character after
    it is a shorthand (w W d D s S x p) or a literal without special meaning.

Digits are reported as TokenLiteralNumeric so the parser can read quantifier
bounds and hex escapes without re-scanning.

# AST Node Types

  - Literal: one character
  - Dot: any character of the alphabet except newline
  - Shorthand: \w \W \d \D \s \S
  - Property: \pL or \p{Name}, a unicode category or script
  - CharSet: a bracketed class of characters, ranges, shorthands and properties
  - Sequence: concatenation
  - Alternation: one of several Sequence branches
  - Anchor: ^ or $, which emit nothing

Every node carries a Quantifier. A quantifier after a group attaches to the
node of the group's content, not to a wrapper node.

Nodes are stored in an arena owned by the AST and refer to their children by
NodeID. Children are allocated before their parents, so the tree is acyclic by
construction. An AST is read-only once Compile returns and may be shared
between goroutines.

# Errors

Compile returns a *Error. LexError covers structural problems found while
scanning; ParseError covers quantifier bounds, empty classes, reversed ranges,
unknown properties and anchors that cannot sit at a boundary of the pattern,
including anchors nested in groups or repeated by a quantifier. Position and
End delimit the offending span in bytes.
*/
package pattern
