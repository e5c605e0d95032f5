// Package config loads command-line defaults from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DefaultEnvFile is the dotenv file LoadEnv reads.
const DefaultEnvFile = ".env"

// FilterConfig holds the defaults for the filter tools. Command-line flags
// override every field.
type FilterConfig struct {
	// CoefFile is the YAML coefficient file.
	CoefFile string `env:"BLOCKFILTER_COEF_FILE"`

	// BlockLen is the number of frames per device callback.
	BlockLen int `env:"BLOCKFILTER_BLOCK_LEN, default=1024"`

	// PollInterval is how often progress is reported while the stream plays.
	PollInterval time.Duration `env:"BLOCKFILTER_POLL_INTERVAL, default=1s"`

	// RealTime paces callbacks at the device rate instead of running flat out.
	RealTime bool `env:"BLOCKFILTER_REALTIME, default=false"`

	// Float32 selects the single-precision pipeline.
	Float32 bool `env:"BLOCKFILTER_FLOAT32, default=false"`
}

// LoadEnv loads DefaultEnvFile into the process environment without
// overriding variables that are already set. A missing file is reported with
// an error for which os.IsNotExist is true.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{DefaultEnvFile}
	}
	return godotenv.Load(filenames...)
}

// NewFilterConfigFromEnv reads FilterConfig from the process environment.
func NewFilterConfigFromEnv(ctx context.Context) (*FilterConfig, error) {
	return newFilterConfig(ctx, envconfig.OsLookuper())
}

// NewFilterConfigFromMap reads FilterConfig from a fixed set of variables.
func NewFilterConfigFromMap(ctx context.Context, vars map[string]string) (*FilterConfig, error) {
	return newFilterConfig(ctx, envconfig.MapLookuper(vars))
}

func newFilterConfig(ctx context.Context, lookuper envconfig.Lookuper) (*FilterConfig, error) {
	var cfg FilterConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no tool can run with.
func (c *FilterConfig) Validate() error {
	if c.BlockLen < 1 {
		return fmt.Errorf("BLOCKFILTER_BLOCK_LEN must be positive, got %d", c.BlockLen)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("BLOCKFILTER_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	return nil
}
