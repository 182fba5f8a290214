package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

const envPrefix = "MATCHROOM_"

// Duration reads "5s"-style strings from both TOML and YAML files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type ServerConfig struct {
	Address        string   `toml:"address" yaml:"address"`
	SocketPath     string   `toml:"socket_path" yaml:"socket_path"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

type RoomConfig struct {
	Capacity             int      `toml:"capacity" yaml:"capacity"`
	CodeLength           int      `toml:"code_length" yaml:"code_length"`
	AllocationRetryLimit int      `toml:"allocation_retry_limit" yaml:"allocation_retry_limit"`
	WaitTimeout          Duration `toml:"wait_timeout" yaml:"wait_timeout"`
	SweepInterval        Duration `toml:"sweep_interval" yaml:"sweep_interval"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

type Config struct {
	Server ServerConfig `toml:"server" yaml:"server"`
	Room   RoomConfig   `toml:"room" yaml:"room"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:    ":8080",
			SocketPath: "/join",
		},
		Room: RoomConfig{
			Capacity:             3,
			CodeLength:           9,
			AllocationRetryLimit: 3,
			SweepInterval:        Duration{5 * time.Second},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, then the optional file at
// path (.toml, .yaml or .yml), then the environment. Variables found in
// envFiles are loaded first without overriding the real environment.
func Load(path string, envFiles ...string) (Config, error) {
	config := Default()

	if path != "" {
		if err := config.readFile(path); err != nil {
			return Config{}, err
		}
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("Failed to load %s: %w", envFile, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (config *Config) readFile(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Failed to read config file:\n\t- %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(file), config); err != nil {
			return fmt.Errorf("Failed to parse config TOML:\n\t- %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(file, config); err != nil {
			return fmt.Errorf("Failed to parse config YAML:\n\t- %w", err)
		}
	default:
		return fmt.Errorf("Unsupported config format %q", filepath.Ext(path))
	}

	return nil
}

func (config *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Address = "0.0.0.0:" + port
	}

	if address := os.Getenv(envPrefix + "ADDRESS"); address != "" {
		config.Server.Address = address
	}

	if origins := os.Getenv(envPrefix + "ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	if capacity := os.Getenv(envPrefix + "CAPACITY"); capacity != "" {
		parsed, err := strconv.Atoi(capacity)
		if err != nil {
			return fmt.Errorf("%sCAPACITY: %w", envPrefix, err)
		}
		config.Room.Capacity = parsed
	}

	if timeout := os.Getenv(envPrefix + "WAIT_TIMEOUT"); timeout != "" {
		if err := config.Room.WaitTimeout.UnmarshalText([]byte(timeout)); err != nil {
			return fmt.Errorf("%sWAIT_TIMEOUT: %w", envPrefix, err)
		}
	}

	if level := os.Getenv(envPrefix + "LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}

	return nil
}

func (config Config) Validate() error {
	var errs []error

	if config.Room.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("room.capacity must be positive, got %d", config.Room.Capacity))
	}
	if config.Room.CodeLength <= 0 {
		errs = append(errs, fmt.Errorf("room.code_length must be positive, got %d", config.Room.CodeLength))
	}
	if config.Room.AllocationRetryLimit <= 0 {
		errs = append(errs, fmt.Errorf("room.allocation_retry_limit must be positive, got %d", config.Room.AllocationRetryLimit))
	}
	if config.Room.WaitTimeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("room.wait_timeout must not be negative"))
	}
	if config.Room.WaitTimeout.Duration > 0 && config.Room.SweepInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("room.sweep_interval must be positive when wait_timeout is set"))
	}
	if !strings.HasPrefix(config.Server.SocketPath, "/") {
		errs = append(errs, fmt.Errorf("server.socket_path must start with /"))
	}

	return errors.Join(errs...)
}
