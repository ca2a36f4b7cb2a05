package rxgen

import (
	"fmt"
	"time"

	"github.com/gnolang/rxgen/generator"
	"github.com/gnolang/rxgen/internal"
	"github.com/gnolang/rxgen/pattern"
)

// FixtureEngine runs one fixture. Engine implements it.
type FixtureEngine interface {
	GenerateFixture(index int, fixture Fixture) ([]string, error)
}

var _ FixtureEngine = (*Engine)(nil)

// Engine generates strings under one Config. It caches compiled patterns
// and is safe for concurrent use.
type Engine struct {
	config Config
	gen    generator.Config
	seed   uint64
	cache  *internal.Cache
	source generator.Source
}

// New loads the configuration at configurationPath and builds an Engine.
// An empty path uses DefaultConfig.
func New(configurationPath string) (*Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}
	return NewEngine(config)
}

// NewEngine builds an Engine from an in-memory Config. Without a configured
// seed the engine seeds itself from the clock.
func NewEngine(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	seed := uint64(time.Now().UnixNano())
	if config.Seed != nil {
		seed = *config.Seed
	}

	return &Engine{
		config: config,
		gen:    config.GeneratorConfig(),
		seed:   seed,
		cache:  internal.NewCache(internal.DefaultCacheSize),
		source: generator.NewLockedSource(generator.NewSource(seed)),
	}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.config }

// Seed returns the seed of the engine's shared source.
func (e *Engine) Seed() uint64 { return e.seed }

// CacheStats reports how often Compile found p already compiled.
func (e *Engine) CacheStats() (hits, misses int) { return e.cache.Stats() }

// Compile returns the AST of p, compiling it on first use.
func (e *Engine) Compile(p string) (*pattern.AST, error) {
	if ast, ok := e.cache.Get(p); ok {
		return ast, nil
	}
	ast, err := pattern.Compile(p)
	if err != nil {
		return nil, err
	}
	e.cache.Set(p, ast)
	return ast, nil
}

// Generate samples one string from p using the engine's shared source.
func (e *Engine) Generate(p string) (string, error) {
	return e.GenerateWith(p, e.source)
}

// GenerateN samples n strings from p using the engine's shared source.
func (e *Engine) GenerateN(p string, n int) ([]string, error) {
	return e.generateN(p, n, e.source)
}

// GenerateWith samples one string from p using src.
func (e *Engine) GenerateWith(p string, src generator.Source) (string, error) {
	ast, err := e.Compile(p)
	if err != nil {
		return "", err
	}
	return generator.Generate(ast, e.gen, src)
}

// SourceFor returns a source derived from the engine seed and index. The
// same seed and index always give the same sequence of draws.
func (e *Engine) SourceFor(index int) generator.Source {
	return generator.NewSource(e.seed + uint64(index) + 1)
}

// GenerateFixture samples fixture.Count strings (at least one) with a source
// reserved for the fixture at index.
func (e *Engine) GenerateFixture(index int, fixture Fixture) ([]string, error) {
	count := fixture.Count
	if count == 0 {
		count = 1
	}
	return e.generateN(fixture.Pattern, count, e.SourceFor(index))
}

func (e *Engine) generateN(p string, n int, src generator.Source) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", n)
	}
	ast, err := e.Compile(p)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := generator.Generate(ast, e.gen, src)
		if err != nil {
			return nil, err
		}
		values = append(values, s)
	}
	return values, nil
}
