package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/influx"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt              = 0.01
	DefaultMaxPoints       = 30000
	DefaultAnimateInterval = time.Millisecond
	DefaultRepeats         = 1
	DefaultFPS             = 60
	DefaultTheme           = "cyberpunk"
	DefaultDataDir         = ".lorenztrail"
	DefaultLogLevel        = "info"
	DefaultInfluxBucket    = "lorenz"

	envPrefix = "LORENZ"
)

// DefaultInitial is the single particle the default scene starts from.
var DefaultInitial = dynamo.Vec3{X: 0.01, Y: 0, Z: 0}

type Config struct {
	ParameterSet      string         `yaml:"parameter_set" mapstructure:"parameter_set"`
	Params            *dynamo.Params `yaml:"params,omitempty" mapstructure:"params"`
	Dt                float64        `yaml:"dt" mapstructure:"dt"`
	MaxPoints         int            `yaml:"max_points" mapstructure:"max_points"`
	InitialConditions []dynamo.Vec3  `yaml:"initial_conditions" mapstructure:"initial_conditions"`
	AnimateInterval   time.Duration  `yaml:"animate_interval" mapstructure:"animate_interval"`
	NumRepeats        int            `yaml:"num_repeats" mapstructure:"num_repeats"`
	FPS               int            `yaml:"fps" mapstructure:"fps"`
	Theme             string         `yaml:"theme" mapstructure:"theme"`
	DataDir           string         `yaml:"data_dir" mapstructure:"data_dir"`
	LogLevel          string         `yaml:"log_level" mapstructure:"log_level"`

	// CatalogDSN selects the run catalog. Empty means SQLite in DataDir.
	CatalogDSN  string        `yaml:"catalog_dsn,omitempty" mapstructure:"catalog_dsn"`
	GraylogAddr string        `yaml:"graylog_addr,omitempty" mapstructure:"graylog_addr"`
	Influx      influx.Config `yaml:"influx" mapstructure:"influx"`
}

func DefaultConfig() *Config {
	return &Config{
		ParameterSet:      dynamo.DefaultParameterSet,
		Dt:                DefaultDt,
		MaxPoints:         DefaultMaxPoints,
		InitialConditions: []dynamo.Vec3{DefaultInitial},
		AnimateInterval:   DefaultAnimateInterval,
		NumRepeats:        DefaultRepeats,
		FPS:               DefaultFPS,
		Theme:             DefaultTheme,
		DataDir:           DefaultDataDir,
		LogLevel:          DefaultLogLevel,
		Influx:            influx.Config{Bucket: DefaultInfluxBucket},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("parameter_set", def.ParameterSet)
	v.SetDefault("dt", def.Dt)
	v.SetDefault("max_points", def.MaxPoints)
	v.SetDefault("animate_interval", def.AnimateInterval)
	v.SetDefault("num_repeats", def.NumRepeats)
	v.SetDefault("fps", def.FPS)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("catalog_dsn", "")
	v.SetDefault("graylog_addr", "")
	// nested keys need defaults for LORENZ_INFLUX_* to be picked up
	v.SetDefault("influx.url", "")
	v.SetDefault("influx.token", "")
	v.SetDefault("influx.org", "")
	v.SetDefault("influx.bucket", def.Influx.Bucket)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// FromEnv returns the defaults with LORENZ_* environment overrides applied.
func FromEnv() (*Config, error) {
	return decode(newViper())
}

// Load reads a YAML config file. Unset keys keep their defaults and
// LORENZ_* environment variables win over the file.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	cfg.InitialConditions = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if len(cfg.InitialConditions) == 0 {
		cfg.InitialConditions = []dynamo.Vec3{DefaultInitial}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// NewSimulator builds the simulator described by the config. Explicit
// params take precedence over the named set.
func (c *Config) NewSimulator() (*dynamo.Simulator, error) {
	if c.Params != nil {
		return dynamo.NewWithParams(*c.Params, c.InitialConditions, c.MaxPoints, c.Dt)
	}
	return dynamo.New(c.ParameterSet, c.InitialConditions, c.MaxPoints, c.Dt)
}

// NewTicker builds the simulator and wraps it in a rate-limited ticker.
func (c *Config) NewTicker() (*dynamo.Ticker, error) {
	sim, err := c.NewSimulator()
	if err != nil {
		return nil, err
	}
	return dynamo.NewTicker(sim, c.AnimateInterval, c.NumRepeats), nil
}

// Validate reports the error NewSimulator would return.
func (c *Config) Validate() error {
	trial := *c
	trial.MaxPoints = min(c.MaxPoints, 1)
	_, err := trial.NewSimulator()
	return err
}
