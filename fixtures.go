package rxgen

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// FixtureResult is the outcome of one fixture. Err is kept for callers;
// Error carries its text for JSON output.
type FixtureResult struct {
	Name    string   `json:"name"`
	Pattern string   `json:"pattern"`
	Values  []string `json:"values,omitempty"`
	Err     error    `json:"-"`
	Error   string   `json:"error,omitempty"`
}

// ProcessFixtures runs every fixture on a pool of runtime.NumCPU() workers.
// Results are returned in the order of fixtures. A failing fixture is
// recorded in its result and does not stop the others. When ctx is done no
// further fixture is started; the results gathered so far are returned
// together with ctx.Err().
func ProcessFixtures(
	ctx context.Context,
	logger *zap.Logger,
	engine FixtureEngine,
	fixtures []Fixture,
) ([]FixtureResult, error) {
	results := make([]FixtureResult, len(fixtures))
	for i, f := range fixtures {
		results[i] = FixtureResult{Name: f.Name, Pattern: f.Pattern}
	}

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(fixtures),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("fixtures"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var wg sync.WaitGroup
	var ctxErr error

dispatch:
	for i, fixture := range fixtures {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, f Fixture) {
			defer wg.Done()
			defer func() { <-sem }()

			values, err := engine.GenerateFixture(i, f)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing fixture",
						zap.String("fixture", f.Name),
						zap.String("pattern", f.Pattern),
						zap.Error(err))
				}
				results[i].Err = err
				results[i].Error = err.Error()
			} else {
				results[i].Values = values
			}
			_ = bar.Add(1)
		}(i, fixture)
	}

	wg.Wait()
	_ = bar.Finish()

	if ctxErr != nil {
		return results, ctxErr
	}
	return results, nil
}

// Failed returns the results that carry an error.
func Failed(results []FixtureResult) []FixtureResult {
	var failed []FixtureResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
