package generator

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/rxgen/pattern"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) IntRange(lo, hi int) int {
	args := m.Called(lo, hi)
	return args.Int(0)
}

func generate(t *testing.T, input string, cfg Config, src Source) string {
	t.Helper()
	ast, err := pattern.Compile(input)
	require.NoError(t, err)
	out, err := Generate(ast, cfg, src)
	require.NoError(t, err)
	return out
}

func TestGenerate_Dispatch(t *testing.T) {
	t.Parallel()
	src := new(mockSource)
	src.On("IntRange", 0, 1).Return(1).Once()
	src.On("IntRange", 0, 2).Return(2).Once()
	src.On("IntRange", 0, 2).Return(0).Once()

	out := generate(t, "a|[xyz]{2}", DefaultConfig(), src)

	assert.Equal(t, "zx", out)
	src.AssertExpectations(t)
}

func TestGenerate_UnboundedUsesCap(t *testing.T) {
	t.Parallel()
	src := new(mockSource)
	src.On("IntRange", 0, 5).Return(5).Once()

	cfg := DefaultConfig()
	cfg.UnboundedRepeatCap = 5
	out := generate(t, "a*", cfg, src)

	assert.Equal(t, "aaaaa", out)
	src.AssertExpectations(t)
}

func TestGenerate_ForcedChoicesDrawNothing(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"literals", "abc", "abc"},
		{"fixed count", "a{3}", "aaa"},
		{"single member class", "[q]{2}", "qq"},
		{"hex escape", `\x{41}\x42`, "AB"},
		{"control escapes", `\t\n`, "\t\n"},
		{"anchors", "^ab$", "ab"},
		{"escaped metacharacters", `\[\.\]`, "[.]"},
		{"empty pattern", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := new(mockSource)
			assert.Equal(t, tt.expected, generate(t, tt.input, DefaultConfig(), src))
			src.AssertNotCalled(t, "IntRange", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerate_GroupRepeatsWholeContent(t *testing.T) {
	t.Parallel()
	src := new(mockSource)
	src.On("IntRange", 0, 1).Return(0).Once()
	src.On("IntRange", 0, 1).Return(1).Once()

	out := generate(t, "(ab|cd){2}", DefaultConfig(), src)

	assert.Equal(t, "abcd", out)
	src.AssertExpectations(t)
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		cfg      Config
		sentinel error
		position int
	}{
		{
			name:     "negated class over its own alphabet",
			input:    "[^0-9]",
			cfg:      Config{Alphabet: []rune("0123456789"), UnboundedRepeatCap: 10},
			sentinel: ErrEmptyAlphabet,
			position: 0,
		},
		{
			name:     "negated shorthand",
			input:    `x\D`,
			cfg:      Config{Alphabet: []rune("0123456789"), UnboundedRepeatCap: 10},
			sentinel: ErrEmptyAlphabet,
			position: 1,
		},
		{
			name:     "dot over newline only",
			input:    ".",
			cfg:      Config{Alphabet: []rune("\n"), UnboundedRepeatCap: 10},
			sentinel: ErrEmptyAlphabet,
			position: 0,
		},
		{
			name:     "dot over empty alphabet",
			input:    "ab.",
			cfg:      Config{UnboundedRepeatCap: 10},
			sentinel: ErrEmptyAlphabet,
			position: 2,
		},
		{
			name:     "minimum above cap",
			input:    "a{20,}",
			cfg:      DefaultConfig(),
			sentinel: ErrInvalidQuantifierBounds,
			position: 0,
		},
		{
			name:     "zero cap",
			input:    "a",
			cfg:      Config{Alphabet: []rune("a")},
			sentinel: ErrInvalidConfig,
			position: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ast, err := pattern.Compile(tt.input)
			require.NoError(t, err)

			out, err := Generate(ast, tt.cfg, NewSource(1))
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)

			var genErr *Error
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, tt.position, genErr.Position)
		})
	}
}

func TestGenerate_EmptyAlphabetWithoutDot(t *testing.T) {
	t.Parallel()
	out := generate(t, `[a-c]\d`, Config{UnboundedRepeatCap: 3}, NewSource(7))
	require.Len(t, out, 2)
	assert.Contains(t, "abc", out[:1])
	assert.Contains(t, "0123456789", out[1:])
}

func TestGenerate_Properties(t *testing.T) {
	t.Parallel()
	src := NewSource(3)
	cfg := DefaultConfig()

	for i := 0; i < 100; i++ {
		out := generate(t, "[a-z]{3}", cfg, src)
		require.Len(t, out, 3)
		for _, r := range out {
			assert.True(t, r >= 'a' && r <= 'z', "unexpected %q", r)
		}

		neg := generate(t, "[^0-9]", cfg, src)
		assert.False(t, strings.ContainsAny(neg, "0123456789"), "unexpected %q", neg)

		greek := generate(t, `\p{Greek}`, cfg, src)
		r, _ := utf8.DecodeRuneInString(greek)
		assert.True(t, unicode.Is(unicode.Greek, r), "unexpected %q", greek)
	}

	seen := map[string]int{}
	for i := 0; i < 200; i++ {
		seen[generate(t, "a|b", cfg, src)]++
	}
	assert.Len(t, seen, 2)
	assert.Positive(t, seen["a"])
	assert.Positive(t, seen["b"])

	capped := Config{Alphabet: PrintableASCII(), UnboundedRepeatCap: 5}
	for i := 0; i < 200; i++ {
		out := generate(t, "a*", capped, src)
		assert.LessOrEqual(t, len(out), 5)
		assert.Equal(t, strings.Repeat("a", len(out)), out)
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	t.Parallel()
	ast := pattern.MustCompile(`(\w{2,6}|\d+)@[a-z]{3}\.(com|org)`)

	first, err := Generate(ast, DefaultConfig(), NewSource(42))
	require.NoError(t, err)
	second, err := Generate(ast, DefaultConfig(), NewSource(42))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_MatchesRegexp(t *testing.T) {
	t.Parallel()
	patterns := []string{
		`[a-z]{3}-\d{4}`,
		`(foo|bar)+baz?`,
		`^[A-Z][a-z]*$`,
		`\w+@\w+\.com`,
		`[^aeiou\s]{5}`,
		`(a|b|c){2,4}`,
		`.{3}`,
		`\S\D\W`,
		`\x41\x{263A}`,
		`\p{Greek}+`,
		`[\pL\d_]{1,8}`,
		`colou?r`,
		`(ab(cd|ef)?)*g`,
		`[a-]x`,
		`[^\W]{4}`,
		`a{0,3}b{2,}`,
		`\s?\.\*`,
		`\a\t\f`,
		`(^a|b$)`,
		`(^|x)y`,
		`(^)*a`,
		`a(b$|c$)`,
	}
	src := NewSource(2024)

	for _, p := range patterns {
		re := regexp.MustCompile(`^(?:` + p + `)$`)
		ast := pattern.MustCompile(p)
		for i := 0; i < 50; i++ {
			out, err := Generate(ast, DefaultConfig(), src)
			require.NoError(t, err, p)
			assert.True(t, re.MatchString(out), "%q does not match %q", out, p)
		}
	}
}

func TestGenerate_SharedLockedSource(t *testing.T) {
	t.Parallel()
	ast := pattern.MustCompile(`[a-f0-9]{8}`)
	re := regexp.MustCompile(`^[a-f0-9]{8}$`)
	src := NewLockedSource(NewSource(9))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := Generate(ast, DefaultConfig(), src)
			if err == nil {
				results[i] = out
			}
		}(i)
	}
	wg.Wait()

	for _, out := range results {
		assert.Regexp(t, re, out)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.UnboundedRepeatCap)
	assert.Len(t, cfg.Alphabet, 95)
	assert.Equal(t, ' ', cfg.Alphabet[0])
	assert.Equal(t, '~', cfg.Alphabet[94])
	assert.NoError(t, cfg.Validate())
}
