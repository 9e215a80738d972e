// Package config loads the operator-supplied avatarcall settings from a
// YAML file and AVATARCALL_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config carries everything the CLI needs: the session-creation
// parameters (passed verbatim to the service) and local runtime knobs.
type Config struct {
	// SessionURL is the base URL of the session-creation service.
	SessionURL string `mapstructure:"session_url"`

	// Avatar session parameters, forwarded verbatim.
	APIKey    string `mapstructure:"api_key"`
	FaceID    string `mapstructure:"face_id"`
	Intro     string `mapstructure:"intro"`
	Prompt    string `mapstructure:"prompt"`
	TimeLimit int    `mapstructure:"time_limit"`
	UserName  string `mapstructure:"user_name"`
	VoiceID   string `mapstructure:"voice_id"`

	// LogLevel selects the logrus level (trace..panic).
	LogLevel string `mapstructure:"log_level"`
}

// Load reads the configuration. The file is optional: defaults plus
// environment variables are enough for a scripted run. The file path
// comes from AVATARCALL_CONFIG, falling back to ./config.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	file := os.Getenv("AVATARCALL_CONFIG")
	if file == "" {
		file = "config.yaml"
	}
	v.SetConfigFile(file)

	v.SetEnvPrefix("AVATARCALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("session_url", "https://api.simli.ai")
	v.SetDefault("intro", "")
	v.SetDefault("prompt", "")
	v.SetDefault("time_limit", 600)
	v.SetDefault("user_name", "avatarcall")
	v.SetDefault("log_level", "info")

	// Keys without defaults still need binding for AutomaticEnv to see
	// them during Unmarshal.
	for _, key := range []string{"api_key", "face_id", "voice_id"} {
		v.SetDefault(key, "")
	}

	if err := v.ReadInConfig(); err != nil {
		logrus.WithFields(logrus.Fields{
			"file": file,
		}).Debug("Config file not read, using defaults and environment")
	} else {
		logrus.WithFields(logrus.Fields{
			"file": v.ConfigFileUsed(),
		}).Info("Config file loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ParseLevel maps the configured log level to a logrus level, falling
// back to Info on nonsense.
func (c *Config) ParseLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
