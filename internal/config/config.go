package config

import (
	"fmt"
	"time"
)

// This file defines the configuration structures; loading is handled by
// viper in viper_config.go.

// ServerConfig is the root configuration.
type ServerConfig struct {
	Server ServerSettings `mapstructure:"server"`
	Game   GameSettings   `mapstructure:"game"`
}

// ServerSettings contains server-wide settings.
type ServerSettings struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	PublicURL       string        `mapstructure:"publicUrl"` // base URL encoded into join QR codes
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`

	// Websocket settings
	PingInterval   time.Duration `mapstructure:"pingInterval"`
	PongTimeout    time.Duration `mapstructure:"pongTimeout"`
	WriteDeadline  time.Duration `mapstructure:"writeDeadline"`
	MaxMessageSize int64         `mapstructure:"maxMessageSize"`
	SendBufferSize int           `mapstructure:"sendBufferSize"`

	// Rate limiting (golang.org/x/time/rate)
	RateLimit      float64 `mapstructure:"rateLimit"`
	RateLimitBurst int     `mapstructure:"rateLimitBurst"`

	// Request limits
	MaxRequestSize int64 `mapstructure:"maxRequestSize"`

	LogLevel  string `mapstructure:"logLevel"`
	LogFormat string `mapstructure:"logFormat"`
}

// GameSettings contains the knobs of the reaction game itself.
type GameSettings struct {
	RoomCodeLength    int           `mapstructure:"roomCodeLength"`
	MaxPlayersPerRoom int           `mapstructure:"maxPlayersPerRoom"`
	ArmDelayMin       time.Duration `mapstructure:"armDelayMin"`
	ArmDelayMax       time.Duration `mapstructure:"armDelayMax"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Port:            "", // Must be set via env
			Host:            "", // Must be set via env
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     0, // 0 for long-lived websockets
			ShutdownTimeout: 30 * time.Second,

			PingInterval:   30 * time.Second,
			PongTimeout:    60 * time.Second,
			WriteDeadline:  10 * time.Second,
			MaxMessageSize: 1024,
			SendBufferSize: 16,

			RateLimit:      10,
			RateLimitBurst: 20,

			MaxRequestSize: 1048576, // 1MB

			LogLevel:  "info",
			LogFormat: "text",
		},
		Game: GameSettings{
			RoomCodeLength:    5,
			MaxPlayersPerRoom: 20,
			ArmDelayMin:       2 * time.Second,
			ArmDelayMax:       5 * time.Second,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *ServerConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}

	if c.Game.RoomCodeLength < 3 {
		return fmt.Errorf("roomCodeLength must be at least 3")
	}
	if c.Game.MaxPlayersPerRoom < 1 {
		return fmt.Errorf("maxPlayersPerRoom must be at least 1")
	}
	if c.Game.ArmDelayMin <= 0 {
		return fmt.Errorf("armDelayMin must be positive")
	}
	if c.Game.ArmDelayMax < c.Game.ArmDelayMin {
		return fmt.Errorf("armDelayMax cannot be less than armDelayMin")
	}

	if c.Server.SendBufferSize < 1 {
		return fmt.Errorf("sendBufferSize must be at least 1")
	}
	if c.Server.MaxMessageSize < 1 {
		return fmt.Errorf("maxMessageSize must be at least 1")
	}

	return nil
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// BaseURL returns the externally visible base URL, falling back to the
// listen address when no public URL is configured.
func (c *ServerConfig) BaseURL() string {
	if c.Server.PublicURL != "" {
		return c.Server.PublicURL
	}
	return "http://" + c.Addr()
}
