package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Model     ModelConfig     `yaml:"model" mapstructure:"model"`
	Stability StabilityConfig `yaml:"stability" mapstructure:"stability"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Map       MapConfig       `yaml:"map" mapstructure:"map"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig configures CSV ingestion.
type DataConfig struct {
	CSVPath      string `yaml:"csv_path" mapstructure:"csv_path"`
	TargetColumn string `yaml:"target_column" mapstructure:"target_column"`
}

// ModelConfig holds random-forest hyperparameters and split settings.
type ModelConfig struct {
	Trees        int     `yaml:"trees" mapstructure:"trees"`
	Seed         int64   `yaml:"seed" mapstructure:"seed"`
	TestFraction float64 `yaml:"test_fraction" mapstructure:"test_fraction"`
	Threshold    float64 `yaml:"threshold" mapstructure:"threshold"`
}

// StabilityConfig configures the repeated-split runner.
type StabilityConfig struct {
	Iterations  int `yaml:"iterations" mapstructure:"iterations"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// MapConfig configures the scatter-map renderer.
type MapConfig struct {
	BoundaryPath string `yaml:"boundary_path" mapstructure:"boundary_path"`
	Width        int    `yaml:"width" mapstructure:"width"`
	Height       int    `yaml:"height" mapstructure:"height"`
}

// ServerConfig configures the prediction server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DROUGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.target_column", "drought")
	v.SetDefault("model.trees", 100)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.test_fraction", 0.3)
	v.SetDefault("model.threshold", 0.5)
	v.SetDefault("stability.iterations", 30)
	v.SetDefault("stability.concurrency", 1)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "drought.db")
	v.SetDefault("map.width", 900)
	v.SetDefault("map.height", 600)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// WriteDefault writes the default configuration as YAML to path.
// It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return eris.Errorf("config: %s already exists", path)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return eris.Wrap(err, "config: marshal defaults")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "config: write file")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
