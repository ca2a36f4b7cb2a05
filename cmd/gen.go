package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/gnolang/rxgen"
	"github.com/gnolang/rxgen/formatter"
	"github.com/gnolang/rxgen/generator"
)

var genCount int

var genCmd = &cobra.Command{
	Use:   "gen PATTERN",
	Short: "Generate strings matching a pattern",
	Long: `Generates strings that match PATTERN, one per line.
Example) rxgen gen -n 3 --seed 42 '[a-z]{3}-\d{4}'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		generateCommand(cmd, args[0])
	},
}

func init() {
	addGenFlags(genCmd.Flags())
}

// addGenFlags registers the generation flags. The root command carries them
// too, so that "rxgen -n 3 PATTERN" works like "rxgen gen -n 3 PATTERN".
func addGenFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&genCount, "count", "n", 1, "Number of strings to generate")
	flags.Uint64("seed", 0, "Seed for reproducible output (default: configured seed or clock)")
	flags.String("alphabet", "", "Characters used for '.' and negated classes (default: printable ASCII)")
	flags.Int("cap", generator.DefaultRepeatCap, "Maximum repeat count for *, + and {m,}")
}

func generateCommand(cmd *cobra.Command, pattern string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	config, err := loadConfig(cfgFile)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.String("path", cfgFile), zap.Error(err))
	}
	if err := applyGenFlags(cmd.Flags(), &config); err != nil {
		logger.Fatal("Invalid flags", zap.Error(err))
	}

	if err := runGenerate(ctx, logger, cmd.OutOrStdout(), config, pattern, genCount); err != nil {
		fmt.Fprint(os.Stderr, formatter.FormatError(pattern, err))
		os.Exit(1)
	}
}

// applyGenFlags overrides configuration values with the flags that were set.
func applyGenFlags(flags *pflag.FlagSet, config *rxgen.Config) error {
	if flags.Changed("seed") {
		seed, err := flags.GetUint64("seed")
		if err != nil {
			return err
		}
		config.Seed = &seed
	}
	if flags.Changed("alphabet") {
		alphabet, err := flags.GetString("alphabet")
		if err != nil {
			return err
		}
		config.Alphabet = alphabet
	}
	if flags.Changed("cap") {
		c, err := flags.GetInt("cap")
		if err != nil {
			return err
		}
		config.UnboundedRepeatCap = c
	}
	return nil
}

func runGenerate(ctx context.Context, logger *zap.Logger, w io.Writer, config rxgen.Config, pattern string, n int) error {
	engine, err := rxgen.NewEngine(config)
	if err != nil {
		return err
	}
	logger.Debug("Generating",
		zap.String("pattern", pattern),
		zap.Int("count", n),
		zap.Uint64("seed", engine.Seed()))

	// report syntax errors even when n is 0
	if _, err := engine.Compile(pattern); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := engine.Generate(pattern)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
	}
	return nil
}
