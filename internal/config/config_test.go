package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	config, err := Load("")
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}

	if config.Room.Capacity != 3 || config.Server.Address != ":8080" || config.Server.SocketPath != "/join" {
		t.Errorf("unexpected defaults: %+v", config)
	}
	if config.Room.WaitTimeout.Duration != 0 {
		t.Errorf("rooms should wait forever by default, got %v", config.Room.WaitTimeout)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "matchroom.toml", `
[server]
address = ":9000"
allowed_origins = ["https://play.example.com"]

[room]
capacity = 4
wait_timeout = "2m"

[log]
level = "debug"
`)
	t.Setenv("PORT", "")

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}

	if config.Server.Address != ":9000" || config.Room.Capacity != 4 || config.Log.Level != "debug" {
		t.Errorf("file values not applied: %+v", config)
	}
	if config.Room.WaitTimeout.Duration != 2*time.Minute {
		t.Errorf("wait timeout = %v, want 2m", config.Room.WaitTimeout)
	}
	if config.Room.CodeLength != 9 {
		t.Errorf("unset keys should keep defaults, code length = %d", config.Room.CodeLength)
	}
	if !slices.Equal(config.Server.AllowedOrigins, []string{"https://play.example.com"}) {
		t.Errorf("origins = %v", config.Server.AllowedOrigins)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "matchroom.yaml", `
server:
  socket_path: /ws
room:
  capacity: 2
  sweep_interval: 1s
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}

	if config.Server.SocketPath != "/ws" || config.Room.Capacity != 2 || config.Room.SweepInterval.Duration != time.Second {
		t.Errorf("file values not applied: %+v", config)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "matchroom.ini", "capacity=3")

	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "matchroom.toml", "[room]\ncapacity = 4\n")
	t.Setenv("MATCHROOM_CAPACITY", "6")
	t.Setenv("MATCHROOM_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MATCHROOM_WAIT_TIMEOUT", "30s")
	t.Setenv("PORT", "7070")

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}

	if config.Room.Capacity != 6 {
		t.Errorf("capacity = %d, want 6", config.Room.Capacity)
	}
	if config.Server.Address != "0.0.0.0:7070" {
		t.Errorf("address = %s, want 0.0.0.0:7070", config.Server.Address)
	}
	if len(config.Server.AllowedOrigins) != 2 {
		t.Errorf("origins = %v", config.Server.AllowedOrigins)
	}
	if config.Room.WaitTimeout.Duration != 30*time.Second {
		t.Errorf("wait timeout = %v", config.Room.WaitTimeout)
	}
}

func TestEnvFile(t *testing.T) {
	envPath := writeFile(t, ".env", "MATCHROOM_LOG_LEVEL=warn\n")
	t.Setenv("MATCHROOM_LOG_LEVEL", "")
	os.Unsetenv("MATCHROOM_LOG_LEVEL")

	config, err := Load("", envPath, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if config.Log.Level != "warn" {
		t.Errorf("log level = %s, want warn", config.Log.Level)
	}
}

func TestInvalidCapacity(t *testing.T) {
	t.Setenv("MATCHROOM_CAPACITY", "zero")
	if _, err := Load(""); err == nil {
		t.Error("expected an error for a non-numeric capacity")
	}

	t.Setenv("MATCHROOM_CAPACITY", "0")
	if _, err := Load(""); err == nil {
		t.Error("expected an error for a zero capacity")
	}
}

func TestValidate(t *testing.T) {
	config := Default()
	config.Room.WaitTimeout = Duration{time.Minute}
	config.Room.SweepInterval = Duration{}
	config.Server.SocketPath = "join"

	if err := config.Validate(); err == nil {
		t.Error("expected validation errors")
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}
