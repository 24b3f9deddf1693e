package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Type != "memory" || !cfg.Cache.Enabled {
		t.Errorf("cache defaults = %s/%v", cfg.Cache.Type, cfg.Cache.Enabled)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
	}
	if cfg.Upload.MaxUploadBytes != 200<<20 {
		t.Errorf("Upload.MaxUploadBytes = %d", cfg.Upload.MaxUploadBytes)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Cache.Type != "redis" || cfg.Cache.TTL != time.Hour {
		t.Errorf("cache = %s/%v", cfg.Cache.Type, cfg.Cache.TTL)
	}
	if cfg.Upload.MaxUploadBytes != 1<<20 {
		t.Errorf("Upload.MaxUploadBytes = %d", cfg.Upload.MaxUploadBytes)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}

	cfg.Server.Port = 8080
	cfg.Cache.Type = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown cache type")
	}

	cfg.Cache.Type = "memory"
	cfg.Upload.MaxUploadBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero upload limit")
	}
}
