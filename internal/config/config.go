package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wheelibin/ambience/internal/constants"
	"github.com/wheelibin/ambience/internal/models"
)

type Reconciler struct {
	DebounceWindow time.Duration `mapstructure:"debounceWindow"`
	SettleDelay    time.Duration `mapstructure:"settleDelay"`
	MixedTolerance int           `mapstructure:"mixedTolerance"`
	TransitionTime int           `mapstructure:"transitionTime"`
	CommandTimeout time.Duration `mapstructure:"commandTimeout"`
}

type Bridge struct {
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	EventBatchWindow  time.Duration `mapstructure:"eventBatchWindow"`
	DiscoveryTimeout  time.Duration `mapstructure:"discoveryTimeout"`
	RefreshInterval   time.Duration `mapstructure:"refreshInterval"`
}

type Audio struct {
	// player command, the track url is appended as the last argument
	Command []string `mapstructure:"command"`
}

type Config struct {
	BridgeIP     string                   `mapstructure:"bridgeIp"`
	HueAppKey    string                   `mapstructure:"hueApplicationKey"`
	DatabasePath string                   `mapstructure:"databasePath"`
	LogFile      string                   `mapstructure:"logFile"`
	LogLevel     string                   `mapstructure:"logLevel"`
	Reconciler   Reconciler               `mapstructure:"reconciler"`
	Bridge       Bridge                   `mapstructure:"bridge"`
	Audio        Audio                    `mapstructure:"audio"`
	Scenes       []models.SceneDefinition `mapstructure:"scenes"`
}

var ErrMissingAppKey = errors.New("config: hueApplicationKey is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("databasePath", "ambience.db")
	v.SetDefault("logFile", "logs/ambience.log")
	v.SetDefault("logLevel", "info")

	v.SetDefault("reconciler.debounceWindow", constants.DebounceWindow)
	v.SetDefault("reconciler.settleDelay", constants.SettleDelay)
	v.SetDefault("reconciler.mixedTolerance", constants.MixedBrightnessTolerance)
	v.SetDefault("reconciler.transitionTime", constants.DefaultTransitionTime)
	v.SetDefault("reconciler.commandTimeout", constants.CommandTimeout)

	v.SetDefault("bridge.requestsPerSecond", constants.BridgeRequestsPerSecond)
	v.SetDefault("bridge.eventBatchWindow", constants.EventBatchWindow)
	v.SetDefault("bridge.discoveryTimeout", constants.DiscoveryTimeout)
	v.SetDefault("bridge.refreshInterval", constants.MainUpdateInterval)

	v.SetDefault("audio.command", []string{"mpv", "--no-video", "--really-quiet"})
}

// Load reads the config file. An empty path searches the usual locations for config.{yaml,json}.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/ambience/")
		v.AddConfigPath("$HOME/.config/ambience/")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("ambience")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.HueAppKey == "" {
		return ErrMissingAppKey
	}
	if c.Reconciler.DebounceWindow <= 0 || c.Reconciler.SettleDelay <= c.Reconciler.DebounceWindow {
		return fmt.Errorf("config: settleDelay (%s) must exceed debounceWindow (%s)", c.Reconciler.SettleDelay, c.Reconciler.DebounceWindow)
	}
	if c.Bridge.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: bridge.requestsPerSecond must be positive")
	}
	for _, s := range c.Scenes {
		if s.ID == "" {
			return fmt.Errorf("config: scene %q has no id", s.Name)
		}
	}
	return nil
}
