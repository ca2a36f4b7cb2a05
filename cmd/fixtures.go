package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/rxgen"
	"github.com/gnolang/rxgen/formatter"
)

var (
	fixturesJsonOutput bool
	outPath            string
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures [paths...]",
	Short: "Generate the fixtures listed in the configuration file",
	Long: `Generates the fixtures of the configuration file, followed by those of the
given YAML files. A directory contributes every YAML file below it.
Example) rxgen fixtures --json -o fixtures.json testdata/fixtures`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config, err := loadConfig(cfgFile)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.String("path", cfgFile), zap.Error(err))
		}
		if err := addFixtureFiles(&config, args); err != nil {
			logger.Fatal("Failed to load fixtures", zap.Strings("paths", args), zap.Error(err))
		}

		if err := runFixtures(ctx, logger, cmd.OutOrStdout(), config, fixturesJsonOutput, outPath); err != nil {
			logger.Error("Error processing fixtures", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	fixturesCmd.Flags().BoolVar(&fixturesJsonOutput, "json", false, "Output fixtures in JSON format")
	fixturesCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

// addFixtureFiles appends the fixtures found in paths to config.
func addFixtureFiles(config *rxgen.Config, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	fixtures, err := rxgen.LoadFixtureFiles(paths...)
	if err != nil {
		return err
	}
	config.Fixtures = append(config.Fixtures, fixtures...)
	return config.Validate()
}

func runFixtures(ctx context.Context, logger *zap.Logger, w io.Writer, config rxgen.Config, isJson bool, jsonOutput string) error {
	if len(config.Fixtures) == 0 {
		fmt.Fprintln(w, "no fixtures configured")
		return nil
	}

	engine, err := rxgen.NewEngine(config)
	if err != nil {
		return err
	}
	logger.Info("Processing fixtures",
		zap.String("config", config.Name),
		zap.Int("fixtures", len(config.Fixtures)),
		zap.Uint64("seed", engine.Seed()))

	results, err := rxgen.ProcessFixtures(ctx, logger, engine, config.Fixtures)
	if err != nil {
		return err
	}
	hits, misses := engine.CacheStats()
	logger.Debug("Compiled patterns", zap.Int("cache_hits", hits), zap.Int("cache_misses", misses))

	if isJson {
		if err := writeJSON(w, results, jsonOutput); err != nil {
			return err
		}
	} else {
		printResults(w, results)
	}

	if failed := rxgen.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d fixtures failed", len(failed), len(results))
	}
	return nil
}

func printResults(w io.Writer, results []rxgen.FixtureResult) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s:\n%s\n", r.Name, formatter.FormatError(r.Pattern, r.Err))
			continue
		}
		fmt.Fprintf(w, "%s:\n", r.Name)
		for _, v := range r.Values {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}
}

func writeJSON(w io.Writer, results []rxgen.FixtureResult, jsonOutput string) error {
	d, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling fixtures to JSON: %w", err)
	}
	if jsonOutput == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	return os.WriteFile(jsonOutput, d, 0o644)
}
