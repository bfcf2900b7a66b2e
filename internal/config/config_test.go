package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Calendar.Type != "isdayoff" {
		t.Errorf("Calendar.Type = %q, want isdayoff", cfg.Calendar.Type)
	}
	if cfg.Calendar.BaseURL != "https://isdayoff.ru" {
		t.Errorf("Calendar.BaseURL = %q, want https://isdayoff.ru", cfg.Calendar.BaseURL)
	}
	if got := cfg.Calendar.GetCacheTTL(); got != 0 {
		t.Errorf("GetCacheTTL() = %v, want 0", got)
	}
	if got := cfg.Calendar.GetTimeout(); got != 10*time.Second {
		t.Errorf("GetTimeout() = %v, want 10s", got)
	}
	if cfg.Calendar.UseOfflineFallback() {
		t.Error("UseOfflineFallback() = true, want false by default")
	}
	if got := cfg.Daemon.GetJitter(); got != 5*time.Minute {
		t.Errorf("GetJitter() = %v, want 5m", got)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  allowed_origins: ["http://localhost:5173"]
calendar:
  type: isdayoff
  base_url: http://calendar.local
  timeout: 3s
  cache_ttl: 720h
  fallback: offline
  store_path: /tmp/calendar.db
daemon:
  daily_time: "04:30"
  jitter: 0s
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if got := cfg.Calendar.GetTimeout(); got != 3*time.Second {
		t.Errorf("GetTimeout() = %v, want 3s", got)
	}
	if got := cfg.Calendar.GetCacheTTL(); got != 720*time.Hour {
		t.Errorf("GetCacheTTL() = %v, want 720h", got)
	}
	if !cfg.Calendar.UseOfflineFallback() {
		t.Error("UseOfflineFallback() = false, want true")
	}
	if cfg.Calendar.StorePath != "/tmp/calendar.db" {
		t.Errorf("StorePath = %q", cfg.Calendar.StorePath)
	}
	if h, m := cfg.Daemon.GetDailyTime(); h != 4 || m != 30 {
		t.Errorf("GetDailyTime() = %d:%d, want 4:30", h, m)
	}
	if got := cfg.Daemon.GetJitter(); got != 0 {
		t.Errorf("GetJitter() = %v, want 0", got)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("VACATION_PAY_CALENDAR_BASE_URL", "http://from-env")
	t.Setenv("VACATION_PAY_SERVER_ADDR", ":7000")

	cfg, err := Load(writeConfig(t, "calendar:\n  base_url: http://from-file\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Calendar.BaseURL != "http://from-env" {
		t.Errorf("Calendar.BaseURL = %q, want http://from-env", cfg.Calendar.BaseURL)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000", cfg.Server.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown calendar type", "calendar:\n  type: production-calendar\n"},
		{"unknown fallback", "calendar:\n  fallback: file\n"},
		{"bad timeout", "calendar:\n  timeout: soon\n"},
		{"negative ttl", "calendar:\n  cache_ttl: -1h\n"},
		{"bad daily time", "daemon:\n  daily_time: \"25:00\"\n"},
		{"daily time not a time", "daemon:\n  daily_time: noon\n"},
		{"negative jitter", "daemon:\n  jitter: -5m\n"},
		{"empty base url", "calendar:\n  base_url: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestLoad_OfflineNeedsNoBaseURL(t *testing.T) {
	cfg, err := Load(writeConfig(t, "calendar:\n  type: offline\n  base_url: \"\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Calendar.UseOfflineFallback() {
		t.Error("offline calendar should not use an offline fallback")
	}
}

func TestDaemonConfig_GetDailyTime_Default(t *testing.T) {
	c := &DaemonConfig{}
	if h, m := c.GetDailyTime(); h != 3 || m != 0 {
		t.Errorf("GetDailyTime() = %d:%d, want 3:0", h, m)
	}
}
