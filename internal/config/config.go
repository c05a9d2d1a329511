package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/peterkuimelis/triad/internal/game"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the process configuration shared by the binaries.
type Config struct {
	HTTP  HTTPConfig  `yaml:"http" envPrefix:"TRIAD_HTTP_"`
	TCP   TCPConfig   `yaml:"tcp" envPrefix:"TRIAD_TCP_"`
	MCP   MCPConfig   `yaml:"mcp" envPrefix:"TRIAD_MCP_"`
	Store StoreConfig `yaml:"store" envPrefix:"TRIAD_STORE_"`
	Log   LogConfig   `yaml:"log" envPrefix:"TRIAD_LOG_"`
	Game  GameConfig  `yaml:"game" envPrefix:"TRIAD_GAME_"`
}

type HTTPConfig struct {
	Addr             string `yaml:"addr" env:"ADDR"`
	MinClientVersion string `yaml:"minClientVersion" env:"MIN_CLIENT_VERSION"`
}

type TCPConfig struct {
	Port int `yaml:"port" env:"PORT"`
}

// MCPConfig selects the MCP transport. An empty Addr serves over stdio.
type MCPConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver" env:"DRIVER"`
	SQLitePath  string `yaml:"sqlitePath" env:"SQLITE_PATH"`
	PostgresURL string `yaml:"postgresURL" env:"POSTGRES_URL"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
	// Stderr sends process logs to stderr; the MCP binary owns stdout.
	Stderr bool `yaml:"stderr" env:"STDERR"`
}

type GameConfig struct {
	DefaultLevel int    `yaml:"defaultLevel" env:"DEFAULT_LEVEL"`
	HandsFile    string `yaml:"handsFile" env:"HANDS_FILE"`
	Seed         int64  `yaml:"seed" env:"SEED"` // 0 = random
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() Config {
	return Config{
		HTTP:  HTTPConfig{Addr: ":8080", MinClientVersion: "1.0.0"},
		TCP:   TCPConfig{Port: 9000},
		Store: StoreConfig{Driver: DriverMemory, SQLitePath: "triad.db"},
		Log:   LogConfig{Level: "info", Format: "console"},
		Game:  GameConfig{DefaultLevel: 1, HandsFile: "hands.yaml"},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and TRIAD_* environment variables, in that order of precedence.
// A missing file is not an error when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config YAML: %w", err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overlays environment variables onto target. Fields whose
// variable is unset keep their current value.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("config: sqlite driver needs store.sqlitePath")
		}
	case DriverPostgres:
		if c.Store.PostgresURL == "" {
			return errors.New("config: postgres driver needs store.postgresURL")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Game.DefaultLevel < 1 || c.Game.DefaultLevel > game.MaxLevel {
		return fmt.Errorf("config: game.defaultLevel %d out of range 1-%d", c.Game.DefaultLevel, game.MaxLevel)
	}
	if c.TCP.Port < 0 || c.TCP.Port > 65535 {
		return errors.New("config: port out of range")
	}
	return nil
}

// NewLogger builds the process logger for cfg.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Stderr {
		zapCfg.OutputPaths = []string{"stderr"}
	}

	return zapCfg.Build()
}
