package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDecode_AppliesDefaultsAndHours(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("storage.type", "memory")

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.AI.Temperature != 0.5 || cfg.AI.MaxTokens != 4000 {
		t.Fatalf("unexpected AI defaults: %+v", cfg.AI)
	}
	if cfg.Followup.TimeThresholdDays != 90 || cfg.Followup.LowRatingThreshold != 2 {
		t.Fatalf("unexpected follow-up defaults: %+v", cfg.Followup)
	}
	if cfg.JWT.ExpireTime != 72*time.Hour {
		t.Fatalf("expected 72h expiry, got %v", cfg.JWT.ExpireTime)
	}
	if cfg.Redis.PoolSize != 20 || cfg.Redis.MinIdleConns != 2 || cfg.Redis.DialTimeoutSeconds != 3 {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Tracing.SampleRatio != 1.0 {
		t.Fatalf("expected sample ratio 1, got %v", cfg.Tracing.SampleRatio)
	}
}

func TestDecode_RejectsWeakSecretInRelease(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("storage.type", "memory")
	v.Set("server.mode", "release")
	v.Set("jwt.secret", "short")

	if _, err := decode(v); err == nil {
		t.Fatalf("expected error for short secret")
	}
}

func TestDecode_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("ai:\n  model: coach-model\n  temperature: 0.2\nfollowup:\n  time_threshold_days: 30\nredis:\n  pool_size: 8\nstorage:\n  type: local\n  local_path: " + filepath.Join(dir, "uploads") + "\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read: %v", err)
	}
	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.AI.Model != "coach-model" || cfg.AI.Temperature != 0.2 || cfg.AI.MaxTokens != 4000 {
		t.Fatalf("unexpected AI config: %+v", cfg.AI)
	}
	if cfg.Followup.TimeThresholdDays != 30 {
		t.Fatalf("expected 30 days, got %d", cfg.Followup.TimeThresholdDays)
	}
	if cfg.Redis.PoolSize != 8 || cfg.Redis.MinIdleConns != 2 {
		t.Fatalf("expected pool size from file and idle default, got %+v", cfg.Redis)
	}
	if _, err := os.Stat(filepath.Join(dir, "uploads")); err != nil {
		t.Fatalf("expected local storage dir to be created: %v", err)
	}
}
