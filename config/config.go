// Package config loads the light client's tunable knobs from a TOML
// file, per spec.md §6.
//
// Grounded on the pack's BurntSushi/toml usage (the tenderdash and
// cometbft-bc manifests both depend on it for node configuration) and
// the teacher's own TrustOptions field set, generalised into a
// persistent, on-disk record instead of a construction-time struct
// literal.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config mirrors spec.md §6's configuration knobs, except that there is
// no max_block_lag knob: the supervisor uses the clock drift as the
// witness block lag.
type Config struct {
	ChainID string `toml:"chain_id"`

	Primary   string   `toml:"primary"`
	Witnesses []string `toml:"witnesses"`

	TrustingPeriod Duration `toml:"trusting_period"`
	ClockDrift     Duration `toml:"clock_drift"`

	TrustThreshold Fraction `toml:"trust_threshold"`

	TrustedHeight int64  `toml:"trusted_height"`
	TrustedHash   string `toml:"trusted_hash"`

	// StoreDir is read from the file but nothing uses it: the lightclient
	// command and the supervisor always keep each peer's store in memory.
	StoreDir string `toml:"store_dir"`
}

// Duration wraps time.Duration so it can be expressed in TOML as a
// time.ParseDuration string ("336h", "5s") rather than raw nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "parsing duration")
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Fraction is a trust threshold expressed as "n/d" in TOML.
type Fraction struct {
	Numerator   int64
	Denominator int64
}

func (f *Fraction) UnmarshalText(text []byte) error {
	var n, d int64
	if _, err := fmt.Sscanf(string(text), "%d/%d", &n, &d); err != nil {
		return errors.Wrapf(err, "parsing trust threshold %q", text)
	}
	f.Numerator, f.Denominator = n, d
	return nil
}

func (f Fraction) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)), nil
}

// Default returns spec.md §6's default configuration, with Primary and
// TrustedHeight/TrustedHash left for the caller to fill in.
func Default() Config {
	return Config{
		TrustingPeriod: Duration{2 * 7 * 24 * time.Hour},
		ClockDrift:     Duration{5 * time.Second},
		TrustThreshold: Fraction{Numerator: 1, Denominator: 3},
	}
}

// Load reads and parses a TOML config file at path, starting from
// Default() so unspecified fields keep spec.md §6's defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "loading config from %s", path)
	}
	return cfg, nil
}
