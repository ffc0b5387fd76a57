package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.NumFloors != NumFloors || cfg.NumElevators != NumElevators {
		t.Errorf("got %d floors, %d elevators", cfg.NumFloors, cfg.NumElevators)
	}
	if cfg.DoorOpenDuration != DoorOpenDuration || cfg.SensorPollRate != SensorPollRate {
		t.Errorf("DoorOpenDuration = %v, SensorPollRate = %v", cfg.DoorOpenDuration, cfg.SensorPollRate)
	}
	if len(cfg.InstanceID) != InstanceIDLength {
		t.Errorf("InstanceID = %q, expected a generated id", cfg.InstanceID)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	yamlPath := writeFile(t, "bank.yaml", "instance_id: lobby\nfloors: 6\nelevators: 3\ndoor_open_duration: 2s\ntick_interval: 100ms\n")
	envPath := writeFile(t, ".env", "LIFTBANK_ELEVATORS=4\nLIFTBANK_DOOR_OPEN=1500ms\n")

	cfg, err := Load(yamlPath, envPath)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.InstanceID != "lobby" {
		t.Errorf("InstanceID = %q", cfg.InstanceID)
	}
	if cfg.NumFloors != 6 {
		t.Errorf("NumFloors = %d, expected value from YAML", cfg.NumFloors)
	}
	if cfg.NumElevators != 4 {
		t.Errorf("NumElevators = %d, expected .env override", cfg.NumElevators)
	}
	if cfg.DoorOpenDuration != 1500*time.Millisecond {
		t.Errorf("DoorOpenDuration = %v", cfg.DoorOpenDuration)
	}
	if cfg.TickInterval != 100*time.Millisecond {
		t.Errorf("TickInterval = %v", cfg.TickInterval)
	}
}

func TestProcessEnvWins(t *testing.T) {
	envPath := writeFile(t, ".env", "LIFTBANK_FLOORS=4\n")
	t.Setenv(EnvFloors, "12")

	cfg, err := Load("", envPath)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.NumFloors != 12 {
		t.Errorf("NumFloors = %d, expected process environment to win", cfg.NumFloors)
	}
}

func TestMissingEnvFileIgnored(t *testing.T) {
	if _, err := Load("", filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load returned %v for a missing .env file", err)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"no floors", "floors: 0\n", ErrNoFloors},
		{"empty fleet", "elevators: 0\n", ErrNoElevators},
		{"zero dwell", "door_open_duration: 0s\n", ErrBadDuration},
		{"negative poll rate", "sensor_poll_rate: -5ms\n", ErrBadDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bank.yaml", tt.yaml), "")
			if !errors.Is(err, tt.want) {
				t.Errorf("Load returned %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestBadEnvValue(t *testing.T) {
	envPath := writeFile(t, ".env", "LIFTBANK_TICK=soon\n")
	if _, err := Load("", envPath); err == nil {
		t.Error("expected an error for an unparsable duration")
	}
}
