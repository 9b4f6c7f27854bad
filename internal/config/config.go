// Package config loads the miner's TOML configuration file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config holds every tunable the miner reads at startup. Field names match
// the TOML keys via the `toml` struct tags; defaults are applied in
// Default() before a file is decoded on top of them, so an absent or
// partially-specified file never leaves a zero-value field behind.
type Config struct {
	Server         string `toml:"server"`
	RewardsDir     string `toml:"rewards_dir"`
	Thread         int    `toml:"thread"`
	JobInterval    int    `toml:"job_interval"`
	ReportInterval int    `toml:"report_interval"`
	OnMined        string `toml:"on_mined"`
	ReportServer   string `toml:"report_server"`
	ReportUser     string `toml:"report_user"`
	PoolSecret     string `toml:"pool_secret"`

	// InsecureSkipVerify disables TLS certificate verification on every
	// outbound HTTP client when true. Defaults to true to match a pool
	// server typically reachable only over a self-signed endpoint; set to
	// false once the pool presents a certificate worth verifying.
	InsecureSkipVerify bool `toml:"insecure_skip_verify"`
}

// Default returns the configuration used when no file is present, or a
// key is left unset.
func Default() Config {
	return Config{
		Server:             "https://clc.ix.tc",
		RewardsDir:         "./rewards",
		Thread:             -1,
		JobInterval:        1,
		ReportInterval:     10,
		OnMined:            "",
		ReportServer:       "",
		ReportUser:         "",
		PoolSecret:         "",
		InsecureSkipVerify: true,
	}
}

// Load reads and decodes a TOML config file at path, starting from
// Default() and overwriting only the keys present in the file. A missing
// file is not an error: the defaults are returned as-is, with a warning
// logged by the caller.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decode config %s", path)
	}
	return cfg, nil
}
