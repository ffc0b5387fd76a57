package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/xyproto/randomstring"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither the YAML file nor the environment set a value.
const (
	NumFloors        = 10
	NumElevators     = 2
	DoorOpenDuration = 3 * time.Second
	TickInterval     = 500 * time.Millisecond
	SensorPollRate   = 25 * time.Millisecond
	LogLevel         = "debug"
	InstanceIDLength = 8
)

// Environment keys read from the .env file and the process environment.
const (
	EnvInstanceID   = "LIFTBANK_ID"
	EnvFloors       = "LIFTBANK_FLOORS"
	EnvElevators    = "LIFTBANK_ELEVATORS"
	EnvDoorOpen     = "LIFTBANK_DOOR_OPEN"
	EnvTickInterval = "LIFTBANK_TICK"
	EnvPollRate     = "LIFTBANK_POLL"
	EnvLogLevel     = "LIFTBANK_LOG_LEVEL"
)

var (
	ErrNoFloors    = errors.New("config: floor count must be at least 1")
	ErrNoElevators = errors.New("config: elevator count must be at least 1")
	ErrBadDuration = errors.New("config: durations must be positive")
)

// Config is fixed at startup; the fleet is never resized while running.
type Config struct {
	InstanceID       string        `yaml:"instance_id"`
	NumFloors        int           `yaml:"floors"`
	NumElevators     int           `yaml:"elevators"`
	DoorOpenDuration time.Duration `yaml:"door_open_duration"`
	TickInterval     time.Duration `yaml:"tick_interval"`
	SensorPollRate   time.Duration `yaml:"sensor_poll_rate"`
	LogLevel         string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		NumFloors:        NumFloors,
		NumElevators:     NumElevators,
		DoorOpenDuration: DoorOpenDuration,
		TickInterval:     TickInterval,
		SensorPollRate:   SensorPollRate,
		LogLevel:         LogLevel,
	}
}

// Load builds a Config from defaults, then the YAML file at path, then the
// .env file at envPath and the process environment. Empty paths are skipped.
func Load(path, envPath string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("config: open %s: %w", path, err)
		}
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	env, err := readEnv(envPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return cfg, err
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = randomstring.EnglishFrequencyString(InstanceIDLength)
	}
	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	if cfg.NumFloors < 1 {
		return ErrNoFloors
	}
	if cfg.NumElevators < 1 {
		return ErrNoElevators
	}
	if cfg.DoorOpenDuration <= 0 || cfg.TickInterval <= 0 || cfg.SensorPollRate <= 0 {
		return ErrBadDuration
	}
	return nil
}

// SlogLevel maps LogLevel onto slog, falling back to Info.
func (cfg Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// readEnv merges the .env file with the process environment, which wins.
func readEnv(envPath string) (map[string]string, error) {
	env := make(map[string]string)
	if envPath != "" {
		fileEnv, err := godotenv.Read(envPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", envPath, err)
		}
		for k, v := range fileEnv {
			env[k] = v
		}
	}
	for _, key := range []string{EnvInstanceID, EnvFloors, EnvElevators, EnvDoorOpen, EnvTickInterval, EnvPollRate, EnvLogLevel} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

func (cfg *Config) applyEnv(env map[string]string) error {
	if v := strings.TrimSpace(env[EnvInstanceID]); v != "" {
		cfg.InstanceID = v
	}
	if v := strings.TrimSpace(env[EnvLogLevel]); v != "" {
		cfg.LogLevel = v
	}
	for key, dst := range map[string]*int{EnvFloors: &cfg.NumFloors, EnvElevators: &cfg.NumElevators} {
		v := strings.TrimSpace(env[key])
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
	}
	for key, dst := range map[string]*time.Duration{EnvDoorOpen: &cfg.DoorOpenDuration, EnvTickInterval: &cfg.TickInterval, EnvPollRate: &cfg.SensorPollRate} {
		v := strings.TrimSpace(env[key])
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}
