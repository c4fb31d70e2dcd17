package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rionpgup/student-tracker/internal/model"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, model.GradeModeOverall, cfg.Grading.Mode)
	assert.Equal(t, "admin", cfg.Auth.AdminPassword)
	assert.Equal(t, 4, cfg.Auth.MinPasswordLength)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "tracker.yaml")
	data := []byte(`
storage:
  backend: file
  file:
    path: roster.json
grading:
  mode: subjects
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("TRACKER_FILE_PATH", "override.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "override.json", cfg.Storage.File.Path)
	assert.Equal(t, model.GradeModeSubjects, cfg.Grading.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched sections keep their defaults
	assert.Equal(t, "students.db", cfg.Storage.SQLite.Path)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRACKER_BACKEND=memory\n"), 0o600))
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "none.yaml"))
	t.Setenv("TRACKER_BACKEND", "")
	os.Unsetenv("TRACKER_BACKEND")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: true},
		{name: "unknown grading mode", mutate: func(c *Config) { c.Grading.Mode = "letters" }, wantErr: true},
		{name: "empty grading mode", mutate: func(c *Config) { c.Grading.Mode = "" }},
		{name: "zero password length", mutate: func(c *Config) { c.Auth.MinPasswordLength = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDSNs(t *testing.T) {
	cfg := Default()
	cfg.Database.User = "tracker"
	cfg.Database.Password = "secret"
	assert.Equal(t, "tracker:secret@tcp(localhost:3306)/students?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DatabaseDSN())
	assert.Equal(t, "file:students.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", cfg.SQLiteDSN())
}
