package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("PLANNER_AUTH_JWT_SECRET", "test-secret-key-for-unit-testing")

	// 显式指定的文件不存在时 viper 返回 os 错误而非 ConfigFileNotFoundError
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("期望显式路径不存在时报错")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
auth:
  jwt_secret: "file-secret-key-for-testing"
redis:
  settings_cache_ttl: 30s
feature:
  legacy_period_order_check: false
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 port=9090，实际=%d", cfg.Server.Port)
	}
	if cfg.Redis.SettingsCacheTTL != 30*time.Second {
		t.Errorf("期望 settings_cache_ttl=30s，实际=%v", cfg.Redis.SettingsCacheTTL)
	}
	if cfg.Feature.LegacyPeriodOrderCheck {
		t.Error("期望文件覆盖 legacy_period_order_check=false")
	}
	if cfg.Pagination.DefaultPageSize != 20 {
		t.Errorf("期望默认 page_size=20，实际=%d", cfg.Pagination.DefaultPageSize)
	}
	if cfg.Database.Name != "alpimi_planner" {
		t.Errorf("期望默认 db.name=alpimi_planner，实际=%s", cfg.Database.Name)
	}
	if cfg.Server.RateLimit.Requests != 60 || cfg.Server.RateLimit.Window != time.Minute {
		t.Errorf("期望默认限流 60/1m，实际=%d/%v", cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("auth:\n  jwt_secret: \"file-secret-key-for-testing\"\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	t.Setenv("PLANNER_SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("期望环境变量覆盖 port=7070，实际=%d", cfg.Server.Port)
	}
	if !cfg.Feature.LegacyPeriodOrderCheck {
		t.Error("未配置时 legacy_period_order_check 应默认开启")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Server:     ServerConfig{Port: 8080},
		Auth:       AuthConfig{JWTSecret: "0123456789abcdef"},
		Pagination: PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "合法配置", mutate: func(c *Config) {}, wantErr: false},
		{name: "空密钥", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "短密钥", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: true},
		{name: "端口越界", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "分页上限过小", mutate: func(c *Config) { c.Pagination.MaxPageSize = 10 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
