package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/nstehr/tackle/rules"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: TACKLE_ENGINE_RULESET sets
// engine.ruleset.
const EnvPrefix = "TACKLE"

type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
}

// LoggerConfig drives the slog handler. File adds a rotating log file next
// to the console output, written in the same Format.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// ServerConfig lists the listeners. An empty value disables that listener,
// but at least one must be set.
type ServerConfig struct {
	Socket        string  `mapstructure:"socket" yaml:"socket"`
	WebsocketAddr string  `mapstructure:"websocket_addr" yaml:"websocket_addr"`
	WebsocketPath string  `mapstructure:"websocket_path" yaml:"websocket_path"`
	// AcceptRate caps new sessions per second across both listeners;
	// AcceptBurst sessions may start back to back.
	AcceptRate    float64 `mapstructure:"accept_rate" yaml:"accept_rate"`
	AcceptBurst   int     `mapstructure:"accept_burst" yaml:"accept_burst"`
}

type EngineConfig struct {
	// Ruleset is the preset each new session starts with.
	Ruleset     string `mapstructure:"ruleset" yaml:"ruleset"`
	// RulesetFile, when set, replaces Ruleset with a YAML ruleset.
	RulesetFile string `mapstructure:"ruleset_file" yaml:"ruleset_file"`
	// Seed for the random fallback. Zero seeds from the clock, in both
	// serve and decide.
	Seed        int64  `mapstructure:"seed" yaml:"seed"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Server --
	v.SetDefault("server.socket", "/tmp/tackle.sock")
	v.SetDefault("server.websocket_addr", "")
	v.SetDefault("server.websocket_path", "/ws")
	v.SetDefault("server.accept_rate", 10.0)
	v.SetDefault("server.accept_burst", 4)

	// -- Engine --
	v.SetDefault("engine.ruleset", rules.PresetCore)
	v.SetDefault("engine.ruleset_file", "")
	v.SetDefault("engine.seed", 0)
}

// BindEnv makes every key overridable from TACKLE_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper decodes and validates the merged configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logger.level %q must be one of debug, info, warn, error", c.Logger.Level)
	}
	switch c.Logger.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logger.format %q must be text or json", c.Logger.Format)
	}
	if c.Server.Socket == "" && c.Server.WebsocketAddr == "" {
		return errors.New("server: at least one of socket or websocket_addr must be set")
	}
	if c.Server.WebsocketAddr != "" && !strings.HasPrefix(c.Server.WebsocketPath, "/") {
		return fmt.Errorf("server.websocket_path %q must start with /", c.Server.WebsocketPath)
	}
	if c.Server.AcceptRate <= 0 || c.Server.AcceptBurst <= 0 {
		return fmt.Errorf("server.accept_rate and server.accept_burst must be positive")
	}
	if c.Engine.RulesetFile == "" {
		if _, err := rules.Preset(c.Engine.Ruleset); err != nil {
			return fmt.Errorf("engine.ruleset: %w", err)
		}
	}
	return nil
}

// ExpandPaths resolves ~ in every configured file path.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.Logger.File, &c.Server.Socket, &c.Engine.RulesetFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("could not resolve path '%s': %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// SeedOrClock returns Seed, or a clock-derived seed when Seed is zero.
func (e EngineConfig) SeedOrClock() int64 {
	if e.Seed != 0 {
		return e.Seed
	}
	return time.Now().UnixNano()
}

// LoadRuleset resolves the engine's starting ruleset: the YAML file when
// one is configured, the named preset otherwise.
func (e EngineConfig) LoadRuleset() (rules.Ruleset, error) {
	if e.RulesetFile != "" {
		return rules.LoadRuleset(e.RulesetFile)
	}
	return rules.Preset(e.Ruleset)
}
