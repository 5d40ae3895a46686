package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper.
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/redlight")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// These allow both REDLIGHT-style nested keys and the bare
	// environment variables to work.
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.publicurl", "PUBLIC_URL")
	v.BindEnv("server.loglevel", "LOG_LEVEL")
	v.BindEnv("server.logformat", "LOG_FORMAT")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "MAX_REQUEST_SIZE")

	defaults := DefaultConfig()

	v.SetDefault("server.readtimeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.writetimeout", defaults.Server.WriteTimeout)
	v.SetDefault("server.idletimeout", defaults.Server.IdleTimeout)
	v.SetDefault("server.shutdowntimeout", defaults.Server.ShutdownTimeout)

	v.SetDefault("server.pinginterval", defaults.Server.PingInterval)
	v.SetDefault("server.pongtimeout", defaults.Server.PongTimeout)
	v.SetDefault("server.writedeadline", defaults.Server.WriteDeadline)
	v.SetDefault("server.maxmessagesize", defaults.Server.MaxMessageSize)
	v.SetDefault("server.sendbuffersize", defaults.Server.SendBufferSize)

	v.SetDefault("server.ratelimit", defaults.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", defaults.Server.RateLimitBurst)
	v.SetDefault("server.maxrequestsize", defaults.Server.MaxRequestSize)

	v.SetDefault("server.loglevel", defaults.Server.LogLevel)
	v.SetDefault("server.logformat", defaults.Server.LogFormat)

	v.SetDefault("game.roomcodelength", defaults.Game.RoomCodeLength)
	v.SetDefault("game.maxplayersperroom", defaults.Game.MaxPlayersPerRoom)
	v.SetDefault("game.armdelaymin", defaults.Game.ArmDelayMin)
	v.SetDefault("game.armdelaymax", defaults.Game.ArmDelayMax)

	// The config file is optional; env vars and defaults may be enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file or directory") {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
