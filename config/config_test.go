package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := DefaultConfig()
		c.BotToken = "123:abc"
		return c
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "sqlite history", modify: func(c *Config) { c.DBType = "sqlite" }},
		{name: "mongo history", modify: func(c *Config) { c.DBType = "mongo" }},
		{name: "empty scratch dir", modify: func(c *Config) { c.ScratchDir = "" }, wantErr: true},
		{name: "zero max file size", modify: func(c *Config) { c.MaxFileSize = 0 }, wantErr: true},
		{name: "sample too short", modify: func(c *Config) { c.SampleSeconds = 1 }, wantErr: true},
		{name: "sample too long", modify: func(c *Config) { c.SampleSeconds = 61 }, wantErr: true},
		{name: "unknown db", modify: func(c *Config) { c.DBType = "postgres" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBot(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("Validate without token: %v", err)
	}
	if err := c.ValidateBot(); err == nil {
		t.Error("ValidateBot accepted a missing token")
	}
	c.BotToken = "123:abc"
	if err := c.ValidateBot(); err != nil {
		t.Errorf("ValidateBot: %v", err)
	}
	c.SampleSeconds = 0
	if err := c.ValidateBot(); err == nil {
		t.Error("ValidateBot ignored an invalid sample length")
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScratchDir != "tmp" {
		t.Errorf("ScratchDir = %q, want default", cfg.ScratchDir)
	}
}

func TestLoadConfigFileKeepsDefaultMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	content := "scratch_dir: /var/tmp/bot\nsample_seconds: 15\nmessages:\n  no_results: \"Nada.\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScratchDir != "/var/tmp/bot" {
		t.Errorf("ScratchDir = %q", cfg.ScratchDir)
	}
	if cfg.SampleSeconds != 15 {
		t.Errorf("SampleSeconds = %d", cfg.SampleSeconds)
	}
	if cfg.Messages.NoResults != "Nada." {
		t.Errorf("NoResults = %q", cfg.Messages.NoResults)
	}
	if cfg.Messages.Failure != DefaultMessages().Failure {
		t.Errorf("Failure = %q, want default", cfg.Messages.Failure)
	}
}

func TestLoadConfigFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	if err := os.WriteFile(path, []byte("scratch_dir: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("MAX_FILE_SIZE", "1048576")
	t.Setenv("DB_TYPE", "SQLite")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if cfg.MaxFileSize != 1<<20 {
		t.Errorf("MaxFileSize = %d", cfg.MaxFileSize)
	}
	if cfg.DBType != "sqlite" {
		t.Errorf("DBType = %q", cfg.DBType)
	}
}

func TestLoadWithoutToken(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("BOT_TOKEN", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.ValidateBot(); err == nil {
		t.Error("expected missing token error")
	}
}

func TestLoadBadNumber(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SAMPLE_SECONDS", "twenty")

	if _, err := Load(""); err == nil {
		t.Error("expected conversion error")
	}
}
