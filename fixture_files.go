package rxgen

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/rxgen/scanner"
)

// fixtureExtensions are the file types LoadFixtureFiles picks up in directories.
var fixtureExtensions = []string{".yaml", ".yml"}

type fixtureFile struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

// LoadFixtureFiles reads the fixtures listed in the given files. A directory
// contributes every YAML file below it, in path order. Each file uses the
// fixtures section of the configuration format.
func LoadFixtureFiles(paths ...string) ([]Fixture, error) {
	var fixtures []Fixture
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}

		files := []string{path}
		if info.IsDir() {
			scanned, err := scanner.New(path, fixtureExtensions...).Scan()
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", path, err)
			}
			files = files[:0]
			for _, f := range scanned {
				files = append(files, f.Path)
			}
		}

		for _, file := range files {
			loaded, err := readFixtureFile(file)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", file, err)
			}
			fixtures = append(fixtures, loaded...)
		}
	}
	return fixtures, nil
}

func readFixtureFile(path string) ([]Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ff fixtureFile
	if err := yaml.NewDecoder(f).Decode(&ff); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return ff.Fixtures, nil
}
