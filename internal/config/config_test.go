package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

)

// isolate runs the test in an empty directory so no stray .env is loaded.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"MATHBUDDY_CONFIG", "MATHBUDDY_ADDR", "MATHBUDDY_DB", "MATHBUDDY_LOG_MODE",
		"MATHBUDDY_SESSION_STORE", "MATHBUDDY_REDIS_ADDR", "MATHBUDDY_LLM_PROVIDER",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Sessions.Backend != "memory" || cfg.Sessions.TTL != 2*time.Hour {
		t.Errorf("sessions = %s/%v, want memory/2h", cfg.Sessions.Backend, cfg.Sessions.TTL)
	}
	if cfg.LogMode != "prod" {
		t.Errorf("log mode = %q, want prod", cfg.LogMode)
	}
	if cfg.LLM.MaxTokens != 300 {
		t.Errorf("max tokens = %d, want 300", cfg.LLM.MaxTokens)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "mathbuddy.yaml")
	if err := os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  cors_origins: ["http://localhost:3000"]
log_mode: dev
sessions:
  backend: redis
  ttl: 30m
  redis:
    addr: "localhost:6379"
llm:
  provider: gateway
  gateway:
    base_url: "http://gw.local/v1"
  max_tokens: 200
`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MATHBUDDY_ADDR", ":9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("addr = %q, env should win over file", cfg.Server.Addr)
	}
	if want := []string{"http://localhost:3000"}; !slices.Equal(cfg.Server.CORSOrigins, want) {
		t.Errorf("cors = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.LogMode != "dev" {
		t.Errorf("log mode = %q, want dev", cfg.LogMode)
	}
	if cfg.Sessions.Backend != "redis" || cfg.Sessions.TTL != 30*time.Minute {
		t.Errorf("sessions = %s/%v, want redis/30m", cfg.Sessions.Backend, cfg.Sessions.TTL)
	}
	if cfg.Sessions.MaxSessions != 10000 {
		t.Errorf("max sessions = %d, unset fields should keep defaults", cfg.Sessions.MaxSessions)
	}
	if cfg.LLM.Provider != "gateway" || cfg.LLM.MaxTokens != 200 {
		t.Errorf("llm = %s/%d, want gateway/200", cfg.LLM.Provider, cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("temperature = %v, want default 0.7", cfg.LLM.Temperature)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MATHBUDDY_DB=/tmp/from-dotenv.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("MATHBUDDY_DB")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB != "/tmp/from-dotenv.db" {
		t.Errorf("db = %q, want value from .env", cfg.DB)
	}
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.OpenAI.APIKey != "sk-test" {
		t.Errorf("llm = %s key %q, want openai sk-test", cfg.LLM.Provider, cfg.LLM.OpenAI.APIKey)
	}
}

func TestLoad_DiscoveryKeepsYAMLTuning(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "mathbuddy.yaml")
	if err := os.WriteFile(path, []byte(`
llm:
  max_tokens: 120
  temperature: 0.2
  connect_timeout: 5s
`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != "anthropic" || cfg.LLM.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("discovery not applied: provider=%q", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens != 120 {
		t.Errorf("max_tokens = %d, want 120", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", cfg.LLM.Temperature)
	}
	if cfg.LLM.ConnectTimeout != 5*time.Second {
		t.Errorf("connect_timeout = %v, want 5s", cfg.LLM.ConnectTimeout)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load succeeded for a missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("server: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load succeeded for malformed YAML")
	}

	t.Setenv("MATHBUDDY_SESSION_TTL", "soon")
	if _, err := Load(""); err == nil {
		t.Error("Load succeeded with an unparsable TTL")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad log mode", func(c *Config) { c.LogMode = "verbose" }, true},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"redis without addr", func(c *Config) { c.Sessions.Backend = "redis" }, true},
		{"redis with addr", func(c *Config) {
			c.Sessions.Backend = "redis"
			c.Sessions.Redis.Addr = "localhost:6379"
		}, false},
		{"unknown backend", func(c *Config) { c.Sessions.Backend = "etcd" }, true},
		{"zero ttl", func(c *Config) { c.Sessions.TTL = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(" a, ,b "); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("splitList = %q, want [a b]", got)
	}
	if got := splitList(" , "); got != nil {
		t.Errorf("splitList of separators = %q, want nil", got)
	}
}
