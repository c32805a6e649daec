package symbolic

import (
	"log/slog"

	"github.com/coregx/symregex/alphabet"
)

// Config configures a Matcher.
//
// The configuration trades memory for speed: the dense transition table
// holds StateLimit × K entries (K is the number of atoms) and is allocated
// up front, while states beyond the limit live in slower overflow maps.
type Config struct {
	// StateLimit is the number of states whose transitions are kept in the
	// dense, lock-free table. States with larger ids still work but go
	// through the overflow maps.
	//
	// Default: 10,000 states
	//
	// Tuning guidelines:
	//   - Simple patterns: a few dozen states are ever created
	//   - Patterns with large counted repetitions: raise the limit
	//   - Memory-constrained: lower it; correctness is unaffected
	StateLimit int

	// StartSetSizeLimit is the largest start set for which the matcher skips
	// ahead with a vectorized search for the start set's members. Larger
	// start sets use a table-driven scan.
	//
	// Default: 3 (Memchr3 is the widest search primitive). 0 disables the
	// start-set skip.
	StartSetSizeLimit int

	// UsePrefilter enables the fixed-prefix skip: searching for the literal
	// every match begins with, and consuming the common suffix in one jump
	// during the backward phase.
	//
	// Default: true
	UsePrefilter bool

	// Alphabet selects the predicate solver representation.
	//
	// Default: alphabet.CharSetKind
	Alphabet alphabet.Kind

	// Logger receives construction and cache-growth events. Nothing is logged
	// on the search hot path.
	//
	// Default: a logger that discards everything
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StateLimit:        10_000,
		StartSetSizeLimit: 3,
		UsePrefilter:      true,
		Alphabet:          alphabet.CharSetKind,
		Logger:            slog.New(slog.DiscardHandler),
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of acceptable range.
func (c *Config) Validate() error {
	if c.StateLimit <= 0 {
		return &Error{
			Kind:    InvalidConfig,
			Message: "StateLimit must be > 0",
		}
	}

	if c.StartSetSizeLimit < 0 {
		return &Error{
			Kind:    InvalidConfig,
			Message: "StartSetSizeLimit must be >= 0",
		}
	}

	if c.Alphabet != alphabet.CharSetKind && c.Alphabet != alphabet.BitVectorKind {
		return &Error{
			Kind:    UnsupportedConfig,
			Message: "unsupported alphabet",
			Cause:   alphabet.ErrUnsupportedAlphabet,
		}
	}

	return nil
}

// WithStateLimit returns a new config with the specified dense state limit
func (c Config) WithStateLimit(limit int) Config {
	c.StateLimit = limit
	return c
}

// WithStartSetSizeLimit returns a new config with the specified start set limit
func (c Config) WithStartSetSizeLimit(limit int) Config {
	c.StartSetSizeLimit = limit
	return c
}

// WithPrefilter returns a new config with the prefix skip enabled/disabled
func (c Config) WithPrefilter(enabled bool) Config {
	c.UsePrefilter = enabled
	return c
}

// WithAlphabet returns a new config with the specified solver representation
func (c Config) WithAlphabet(kind alphabet.Kind) Config {
	c.Alphabet = kind
	return c
}

// WithLogger returns a new config with the specified logger
func (c Config) WithLogger(logger *slog.Logger) Config {
	c.Logger = logger
	return c
}

// logger returns the configured logger, or a discarding one.
func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
