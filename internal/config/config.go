// Package config loads metnum settings from defaults, an optional
// metnum.yaml, an optional .env file, METNUM_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/njchilds90/metnum/internal/logging"
)

// EnvPrefix prefixes every environment variable: METNUM_INTEGRATE_N sets
// integrate.n.
const EnvPrefix = "METNUM"

type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	Output    string          `mapstructure:"output"`
	Integrate IntegrateConfig `mapstructure:"integrate"`
	Solve     SolveConfig     `mapstructure:"solve"`
	Server    ServerConfig    `mapstructure:"server"`
}

type IntegrateConfig struct {
	Function string  `mapstructure:"function"`
	Variable string  `mapstructure:"variable"`
	A        float64 `mapstructure:"a"`
	B        float64 `mapstructure:"b"`
	N        int     `mapstructure:"n"`
	Points   int     `mapstructure:"points"`
}

type SolveConfig struct {
	Equations []string  `mapstructure:"equations"`
	Guess     []float64 `mapstructure:"guess"`
	MaxIter   int       `mapstructure:"max_iter"`
	Tol       float64   `mapstructure:"tol"`
	CondLimit float64   `mapstructure:"cond_limit"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// NewViper returns a viper instance with every default registered and the
// environment bound. Callers may bind flags on it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("output", "text")

	v.SetDefault("integrate.function", "x**2 + 3*x + 2")
	v.SetDefault("integrate.variable", "x")
	v.SetDefault("integrate.a", 0.0)
	v.SetDefault("integrate.b", 1.0)
	v.SetDefault("integrate.n", 10)
	v.SetDefault("integrate.points", 100)

	v.SetDefault("solve.equations", []string{
		"x**2 + y**2 + z**2 - 1",
		"x**2 - y**2 + z - 0.5",
		"x - y + z - 0.5",
	})
	v.SetDefault("solve.guess", []float64{0.5, 0.5, 0.5})
	v.SetDefault("solve.max_iter", 10)
	v.SetDefault("solve.tol", 1e-6)
	v.SetDefault("solve.cond_limit", 0.0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", int64(1<<20))
}

// Load reads .env (if present) into the process environment, then the
// config file at path. An empty path looks for metnum.yaml in the working
// directory and tolerates its absence; an explicit path must exist.
func Load(v *viper.Viper, path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	} else {
		v.SetConfigName("metnum")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in settings, ignoring files and environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate checks shapes and enumerations; numeric ranges are left to the
// solvers, which report them with their own errors.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("config: output must be text or json, got %q", c.Output)
	}
	if n := len(c.Solve.Equations); n != 3 {
		return fmt.Errorf("config: solve.equations needs 3 entries, got %d", n)
	}
	if n := len(c.Solve.Guess); n != 3 {
		return fmt.Errorf("config: solve.guess needs 3 entries, got %d", n)
	}
	return nil
}

// Guess3 returns the initial guess as a fixed-size vector.
func (s SolveConfig) Guess3() [3]float64 {
	var g [3]float64
	copy(g[:], s.Guess)
	return g
}

// Equations3 returns the equations as a fixed-size array.
func (s SolveConfig) Equations3() [3]string {
	var e [3]string
	copy(e[:], s.Equations)
	return e
}
