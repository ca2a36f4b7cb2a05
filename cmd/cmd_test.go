package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/rxgen"
	"github.com/gnolang/rxgen/generator"
	"github.com/gnolang/rxgen/pattern"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func seededConfig(seed uint64) rxgen.Config {
	config := rxgen.DefaultConfig()
	config.Seed = &seed
	return config
}

func TestRunGenerate(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()

	var first, second bytes.Buffer
	require.NoError(t, runGenerate(context.Background(), logger, &first, seededConfig(42), `[a-z]{3}-\d{4}`, 5))
	require.NoError(t, runGenerate(context.Background(), logger, &second, seededConfig(42), `[a-z]{3}-\d{4}`, 5))

	lines := strings.Split(strings.TrimSpace(first.String()), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		assert.Regexp(t, `^[a-z]{3}-\d{4}$`, line)
	}
	assert.Equal(t, first.String(), second.String())
}

func TestRunGenerate_Errors(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	var out bytes.Buffer

	err := runGenerate(context.Background(), logger, &out, seededConfig(1), "(a", 0)
	assert.ErrorIs(t, err, pattern.ErrLex)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = runGenerate(ctx, logger, &out, seededConfig(1), "a", 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestApplyGenFlags(t *testing.T) {
	t.Parallel()
	newFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("gen", pflag.ContinueOnError)
		fs.Uint64("seed", 0, "")
		fs.String("alphabet", "", "")
		fs.Int("cap", 0, "")
		return fs
	}

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--seed", "7", "--cap", "3"}))
	config := rxgen.DefaultConfig()
	config.Alphabet = "xyz"
	require.NoError(t, applyGenFlags(fs, &config))

	require.NotNil(t, config.Seed)
	assert.Equal(t, uint64(7), *config.Seed)
	assert.Equal(t, 3, config.UnboundedRepeatCap)
	assert.Equal(t, "xyz", config.Alphabet, "unset flags keep the configured value")

	fs = newFlags()
	require.NoError(t, fs.Parse([]string{"--seed", "0", "--alphabet", "01"}))
	config = rxgen.DefaultConfig()
	require.NoError(t, applyGenFlags(fs, &config))
	require.NotNil(t, config.Seed, "an explicit zero seed is still a seed")
	assert.Equal(t, uint64(0), *config.Seed)
	assert.Equal(t, "01", config.Alphabet)
}

func TestApplyGenFlags_ZeroCapFails(t *testing.T) {
	t.Parallel()
	fs := pflag.NewFlagSet("gen", pflag.ContinueOnError)
	fs.Int("cap", 10, "")
	require.NoError(t, fs.Parse([]string{"--cap", "0"}))

	config := seededConfig(1)
	require.NoError(t, applyGenFlags(fs, &config))
	assert.Equal(t, 0, config.UnboundedRepeatCap)

	var out bytes.Buffer
	err := runGenerate(context.Background(), zap.NewNop(), &out, config, "a*", 1)
	assert.ErrorIs(t, err, generator.ErrInvalidConfig)
	assert.Empty(t, out.String())
}

func TestRunTokensAndAST(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, runTokens(&out, "a+"))
	assert.Equal(t, "0  LiteralChar     \"a\"\n1  QuantifierPlus  \"+\"\n2  EOF\n", out.String())

	out.Reset()
	require.NoError(t, runAST(&out, "a|b"))
	assert.Equal(t, `Alternation(2 branches)
  Sequence(1 children)
    Literal('a')
  Sequence(1 children)
    Literal('b')
`, out.String())

	assert.ErrorIs(t, runTokens(&out, "a]"), pattern.ErrLex)
	assert.ErrorIs(t, runAST(&out, "a{3,1}"), pattern.ErrParse)
}

func TestRunFixtures(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	config := seededConfig(3)
	config.Fixtures = []rxgen.Fixture{
		{Name: "ids", Pattern: `id\d{2}`, Count: 2},
		{Name: "word", Pattern: `hello`},
	}

	var out bytes.Buffer
	require.NoError(t, runFixtures(context.Background(), logger, &out, config, false, ""))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "ids:", lines[0])
	assert.Regexp(t, `^  id\d{2}$`, lines[1])
	assert.Regexp(t, `^  id\d{2}$`, lines[2])
	assert.Equal(t, "word:", lines[3])
	assert.Equal(t, "  hello", lines[4])
}

func TestRunFixtures_JSONFile(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	config := seededConfig(3)
	config.Fixtures = []rxgen.Fixture{{Name: "abc", Pattern: "abc", Count: 2}}
	path := filepath.Join(t.TempDir(), "out.json")

	var out bytes.Buffer
	require.NoError(t, runFixtures(context.Background(), logger, &out, config, true, path))
	assert.Empty(t, out.String())

	d, err := os.ReadFile(path)
	require.NoError(t, err)
	var results []rxgen.FixtureResult
	require.NoError(t, json.Unmarshal(d, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "abc", results[0].Name)
	assert.Equal(t, []string{"abc", "abc"}, results[0].Values)
}

func TestRunFixtures_Failures(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	config := seededConfig(3)
	config.Fixtures = []rxgen.Fixture{
		{Name: "ok", Pattern: "a"},
		{Name: "bad", Pattern: "a{3,1}"},
	}

	var out bytes.Buffer
	err := runFixtures(context.Background(), logger, &out, config, false, "")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 fixtures failed", err.Error())
	assert.Contains(t, out.String(), "bad:\nerror: parse error\n")

	out.Reset()
	require.NoError(t, runFixtures(context.Background(), logger, &out, seededConfig(1), false, ""))
	assert.Equal(t, "no fixtures configured\n", out.String())
}

func TestAddFixtureFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.yaml"), []byte("fixtures:\n  - {name: extra, pattern: e}\n"), 0o644))

	config := rxgen.DefaultConfig()
	config.Fixtures = []rxgen.Fixture{{Name: "base", Pattern: "b"}}
	require.NoError(t, addFixtureFiles(&config, []string{dir}))
	assert.Equal(t, []rxgen.Fixture{{Name: "base", Pattern: "b"}, {Name: "extra", Pattern: "e"}}, config.Fixtures)

	// the same name twice is rejected
	err := addFixtureFiles(&config, []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")

	require.NoError(t, addFixtureFiles(&config, nil))
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit missing path is an error")

	config, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, rxgen.DefaultConfig(), config)
}

func TestRunWatch(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	path := filepath.Join(t.TempDir(), ".rxgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 1\nfixtures:\n  - {name: first, pattern: a}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, logger, out, path, time.Minute) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "first:\n  a\n")
	}, 5*time.Second, 20*time.Millisecond)

	// give the watcher time to register before the rewrite
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("seed: 1\nfixtures:\n  - {name: second, pattern: b}\n"), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "second:\n  b\n")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestExecute(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"--config=", "yy"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "yy\n", out.String())

	// the bare form takes the gen flags
	out.Reset()
	rootCmd.SetArgs([]string{"--config=", "b{2}", "-n", "2", "--seed", "9"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "bb\nbb\n", out.String())

	rootCmd.SetArgs([]string{"--config=", "a", "b"})
	assert.Error(t, rootCmd.Execute())

	out.Reset()
	rootCmd.SetArgs([]string{"gen", "--config=", "-n", "3", "--seed", "5", "x{2}"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "xx\nxx\nxx\n", out.String())

	out.Reset()
	rootCmd.SetArgs([]string{"ast", "ab"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Sequence(2 children)\n  Literal('a')\n  Literal('b')\n", out.String())

	out.Reset()
	cfg := filepath.Join(t.TempDir(), "new.yaml")
	rootCmd.SetArgs([]string{"init", "--config", cfg})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Configuration file created/updated: "+cfg+"\n", out.String())
	_, err := rxgen.LoadConfig(cfg)
	assert.NoError(t, err)
}
