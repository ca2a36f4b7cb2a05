// Package rxgen generates random strings that match a regular-expression-like
// pattern.
//
// The one-shot API compiles and samples a pattern directly:
//
//	ast, err := rxgen.Compile(`[A-Z]{2}\d{3}`)
//	if err != nil {
//	    // handle *pattern.Error
//	}
//	s, err := rxgen.Generate(ast, generator.DefaultConfig(), generator.NewSource(42))
//
// An Engine adds a YAML configuration, a cache of compiled patterns and a
// source that may be shared between goroutines. ProcessFixtures runs the
// fixtures listed in a configuration file on a worker pool.
package rxgen

import (
	"github.com/gnolang/rxgen/generator"
	"github.com/gnolang/rxgen/pattern"
)

// Compile lexes and parses a pattern.
func Compile(p string) (*pattern.AST, error) {
	return pattern.Compile(p)
}

// Generate samples one string from a compiled pattern.
func Generate(ast *pattern.AST, cfg generator.Config, src generator.Source) (string, error) {
	return generator.Generate(ast, cfg, src)
}
