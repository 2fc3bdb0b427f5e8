package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/log"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Environment variables read by LoadEnv. Flags take precedence over them.
const (
	EnvTickRate        = "SNAKE_TICK_RATE"
	EnvPlayfieldWidth  = "SNAKE_PLAYFIELD_WIDTH"
	EnvPlayfieldHeight = "SNAKE_PLAYFIELD_HEIGHT"
	EnvPixelScale      = "SNAKE_PIXEL_SCALE"
	EnvSeed            = "SNAKE_SEED"
	EnvLogLevel        = "SNAKE_LOG_LEVEL"
	EnvPort            = "SNAKE_PORT"
	EnvTLSCert         = "SNAKE_TLS_CERT"
	EnvTLSKey          = "SNAKE_TLS_KEY"
)

type Config struct {
	TickRate        time.Duration
	PlayfieldWidth  int
	PlayfieldHeight int
	PixelScale      float64
	// Seed seeds the food placement generator. Zero means seed from the clock.
	Seed     uint64
	LogLevel string
	Port     string
	// TLSCertFile and TLSKeyFile are set together to serve the API over TLS
	TLSCertFile string
	TLSKeyFile  string
}

// New returns a config holding the defaults from the constants package.
func New() *Config {
	return &Config{
		TickRate:        constants.TickRate,
		PlayfieldWidth:  constants.PlayfieldWidth,
		PlayfieldHeight: constants.PlayfieldHeight,
		PixelScale:      constants.PixelUnitSize,
		LogLevel:        log.LogLevelInfo.String(),
		Port:            "8080",
	}
}

// LoadEnv overrides fields with the values of any SNAKE_* variables that are set.
func (c *Config) LoadEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvTickRate); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvTickRate, err)
		}
		c.TickRate = d
	}
	if v, ok := lookup(EnvPlayfieldWidth); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvPlayfieldWidth, err)
		}
		c.PlayfieldWidth = n
	}
	if v, ok := lookup(EnvPlayfieldHeight); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvPlayfieldHeight, err)
		}
		c.PlayfieldHeight = n
	}
	if v, ok := lookup(EnvPixelScale); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvPixelScale, err)
		}
		c.PixelScale = f
	}
	if v, ok := lookup(EnvSeed); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvSeed, err)
		}
		c.Seed = n
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPort); ok {
		c.Port = v
	}
	if v, ok := lookup(EnvTLSCert); ok {
		c.TLSCertFile = v
	}
	if v, ok := lookup(EnvTLSKey); ok {
		c.TLSKeyFile = v
	}
	return nil
}

// RegisterFlags binds the config to fs using the current values as defaults,
// so LoadEnv should be called first.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.TickRate, "tick-rate", c.TickRate, "Time between two simulation ticks")
	fs.IntVar(&c.PlayfieldWidth, "width", c.PlayfieldWidth, "Playfield width in cells (odd)")
	fs.IntVar(&c.PlayfieldHeight, "height", c.PlayfieldHeight, "Playfield height in cells (odd)")
	fs.Float64Var(&c.PixelScale, "scale", c.PixelScale, "Pixels per cell")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Food placement seed, 0 to seed from the clock")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level")
	fs.StringVar(&c.Port, "port", c.Port, "HTTP port to listen on")
	fs.StringVar(&c.TLSCertFile, "tls-cert", c.TLSCertFile, "TLS certificate file for the API server")
	fs.StringVar(&c.TLSKeyFile, "tls-key", c.TLSKeyFile, "TLS key file for the API server")
}

// Load builds a config from defaults, then the environment, then args.
func Load(name string, args []string) (*Config, error) {
	c := New()
	if err := c.LoadEnv(nil); err != nil {
		return nil, err
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	c.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive, got %v", ErrInvalidConfig, c.TickRate)
	}
	if c.PlayfieldWidth <= 0 || c.PlayfieldWidth%2 == 0 {
		return fmt.Errorf("%w: playfield width must be odd and positive, got %d", ErrInvalidConfig, c.PlayfieldWidth)
	}
	if c.PlayfieldHeight <= 0 || c.PlayfieldHeight%2 == 0 {
		return fmt.Errorf("%w: playfield height must be odd and positive, got %d", ErrInvalidConfig, c.PlayfieldHeight)
	}
	if c.PlayfieldWidth > constants.MaxPlayfieldDimension || c.PlayfieldHeight > constants.MaxPlayfieldDimension {
		return fmt.Errorf("%w: playfield is limited to %dx%d, got %dx%d", ErrInvalidConfig,
			constants.MaxPlayfieldDimension, constants.MaxPlayfieldDimension, c.PlayfieldWidth, c.PlayfieldHeight)
	}
	if c.PixelScale <= 0 {
		return fmt.Errorf("%w: pixel scale must be positive, got %v", ErrInvalidConfig, c.PixelScale)
	}
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("%w: tls cert and key must be set together", ErrInvalidConfig)
	}
	return nil
}

// TLSEnabled reports whether the API server should serve over TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// ResolvedSeed returns Seed, or a clock derived seed when Seed is zero.
func (c *Config) ResolvedSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}
