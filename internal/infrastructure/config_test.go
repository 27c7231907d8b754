package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	cfg := new(AppConfig)
	cfg.AppID = "coursecert"
	cfg.Env = EnvDevelopment
	cfg.PublicBaseURL = "https://learn.example.org"
	cfg.Database.Driver = "postgres"
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.MaxConn = 10
	cfg.Database.Password = "secret"
	cfg.Database.Schema = "coursecert"
	cfg.Database.User = "app"
	cfg.Logging.Level = "info"
	cfg.Security.IDLength = 12
	cfg.Security.JWTMethod = "HS256"
	cfg.Security.JWTSecret = "jwt-secret"
	cfg.Security.TokenName = "token"
	cfg.KVStore.Password = "kv"
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"missing app id", func(c *AppConfig) { c.AppID = "" }, "app_id is required"},
		{"bad driver", func(c *AppConfig) { c.Database.Driver = "sqlite" }, "database.driver must be one of (postgres mysql)"},
		{"short ids", func(c *AppConfig) { c.Security.IDLength = 4 }, "security.id_length must be at least 8"},
		{"relative base url", func(c *AppConfig) { c.PublicBaseURL = "learn" }, "public_base_url must be an absolute URL"},
		{"negative limit", func(c *AppConfig) { c.Limits.ExamSubmitPerMinute = -1 }, "limits.exam_submit_per_minute must be at least 0"},
		{"bad jwt method", func(c *AppConfig) { c.Security.JWTMethod = "RS256" }, "security.jwt_method must be one of (HS256 HS512)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COURSECERT_TEST_DOTENV=loaded\n"), 0o600))
	defer os.Unsetenv("COURSECERT_TEST_DOTENV")

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("COURSECERT_TEST_DOTENV"))

	assert.Error(t, loadDotEnv(filepath.Join(dir, "missing.env")))
}
