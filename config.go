package rxgen

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/rxgen/generator"
)

// DefaultConfigPath is the configuration file looked up by the CLI.
const DefaultConfigPath = ".rxgen.yaml"

// Config is the YAML configuration of an Engine.
type Config struct {
	Name               string    `yaml:"name"`
	Alphabet           string    `yaml:"alphabet,omitempty"`
	UnboundedRepeatCap int       `yaml:"unbounded_repeat_cap"`
	Seed               *uint64   `yaml:"seed,omitempty"`
	Fixtures           []Fixture `yaml:"fixtures,omitempty"`
}

// Fixture names a pattern and how many strings to draw from it.
type Fixture struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
	Count   int    `yaml:"count,omitempty" json:"count,omitempty"`
}

// DefaultConfig is the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Name:               "rxgen",
		UnboundedRepeatCap: generator.DefaultRepeatCap,
	}
}

// GeneratorConfig converts the file settings into a generator.Config. An
// empty alphabet means printable ASCII. The cap is taken as is, so a cap
// that is not positive fails validation.
func (c Config) GeneratorConfig() generator.Config {
	cfg := generator.DefaultConfig()
	if c.Alphabet != "" {
		cfg.Alphabet = []rune(c.Alphabet)
	}
	cfg.UnboundedRepeatCap = c.UnboundedRepeatCap
	return cfg
}

// Validate checks the generator settings and every fixture.
func (c Config) Validate() error {
	if err := c.GeneratorConfig().Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Fixtures))
	for i, f := range c.Fixtures {
		if f.Name == "" {
			return fmt.Errorf("fixture #%d: missing name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("fixture %q: duplicate name", f.Name)
		}
		seen[f.Name] = true
		if f.Count < 0 {
			return fmt.Errorf("fixture %q: count must not be negative, got %d", f.Name, f.Count)
		}
	}
	return nil
}

// LoadConfig reads a configuration file. An empty path yields DefaultConfig.
func LoadConfig(configurationPath string) (Config, error) {
	if configurationPath == "" {
		return DefaultConfig(), nil
	}
	config, err := parseConfigurationFile(configurationPath)
	if err != nil {
		return config, fmt.Errorf("loading %s: %w", configurationPath, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid configuration %s: %w", configurationPath, err)
	}
	return config, nil
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, err
	}

	return config, nil
}

// WriteConfigurationFile writes a starter configuration with one example
// fixture to path.
func WriteConfigurationFile(path string) error {
	if path == "" {
		path = DefaultConfigPath
	}

	config := DefaultConfig()
	config.Fixtures = []Fixture{
		{Name: "user_id", Pattern: `[a-z]{3}\d{4}`, Count: 5},
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, d, 0o644)
}
