package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-lightclient/lightclient/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 14*24*time.Hour, cfg.TrustingPeriod.Duration)
	assert.Equal(t, 5*time.Second, cfg.ClockDrift.Duration)
	assert.Equal(t, int64(1), cfg.TrustThreshold.Numerator)
	assert.Equal(t, int64(3), cfg.TrustThreshold.Denominator)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lightclient.toml")
	contents := `
chain_id = "test-chain"
primary = "http://localhost:26657"
witnesses = ["http://localhost:26658", "http://localhost:26659"]
trusting_period = "1h"
clock_drift = "10s"
trust_threshold = "2/3"
trusted_height = 100
trusted_hash = "ABCDEF"
store_dir = "/var/lib/lightclient"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-chain", cfg.ChainID)
	assert.Equal(t, "http://localhost:26657", cfg.Primary)
	assert.Equal(t, []string{"http://localhost:26658", "http://localhost:26659"}, cfg.Witnesses)
	assert.Equal(t, time.Hour, cfg.TrustingPeriod.Duration)
	assert.Equal(t, 10*time.Second, cfg.ClockDrift.Duration)
	assert.Equal(t, int64(2), cfg.TrustThreshold.Numerator)
	assert.Equal(t, int64(3), cfg.TrustThreshold.Denominator)
	assert.Equal(t, int64(100), cfg.TrustedHeight)
	assert.Equal(t, "ABCDEF", cfg.TrustedHash)
	assert.Equal(t, "/var/lib/lightclient", cfg.StoreDir)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFraction_MarshalText(t *testing.T) {
	f := config.Fraction{Numerator: 1, Denominator: 3}
	bz, err := f.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1/3", string(bz))
}

func TestDuration_UnmarshalText_RejectsGarbage(t *testing.T) {
	var d config.Duration
	assert.Error(t, d.UnmarshalText([]byte("not-a-duration")))
}
