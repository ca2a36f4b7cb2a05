package generator

// DefaultRepeatCap bounds *, + and {m,} when no cap is configured.
const DefaultRepeatCap = 10

// Config controls sampling.
type Config struct {
	// Alphabet is the universe for '.' and for complementing negated
	// classes and shorthands. Order and duplicates do not matter.
	Alphabet []rune
	// UnboundedRepeatCap is the effective maximum of unbounded quantifiers.
	UnboundedRepeatCap int
}

// PrintableASCII returns the characters 0x20 through 0x7E.
func PrintableASCII() []rune {
	runes := make([]rune, 0, 0x7e-0x20+1)
	for r := rune(0x20); r <= 0x7e; r++ {
		runes = append(runes, r)
	}
	return runes
}

// DefaultConfig samples from printable ASCII and caps unbounded repeats at 10.
func DefaultConfig() Config {
	return Config{
		Alphabet:           PrintableASCII(),
		UnboundedRepeatCap: DefaultRepeatCap,
	}
}

// Validate reports an InvalidConfig error for a non-positive repeat cap.
// An empty alphabet is not a config error: patterns that never consult it
// still generate.
func (c Config) Validate() error {
	if c.UnboundedRepeatCap <= 0 {
		return errorf(InvalidConfig, -1, "unbounded repeat cap must be positive, got %d", c.UnboundedRepeatCap)
	}
	return nil
}
