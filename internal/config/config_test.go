package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  admin_email: "chef@forkful.local"
  admin_password_hash: "$2a$10$abcdefghijklmnopqrstuu5Yx8zj7m8VhT8QkB0QFQJ1pV3c4d5e6"

log:
  level: "debug"
  format: "text"

llm:
  text_provider: "anthropic"
  vision_provider: "gemini"
  anthropic_api_key: "sk-ant"
  gemini_api_key: "gm-key"
  request_timeout: "45s"

moderation:
  quality_threshold: 7.5
  photo_approval_threshold: 6.0
  authenticity_confidence: 85
  max_image_attempts: 2

enrichment:
  mode: "queue"
  batch_size: 3
  workers: 1

storage:
  backend: "local"
  local_dir: "/tmp/forkful-media"

email:
  endpoint: "https://mail.example.com/send"
  admin_recipients: "a@example.com, b@example.com"

ratelimit:
  comment_limit: 3
  comment_window: "1m"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.MigrationsDir != "migrations" {
		t.Errorf("database.migrations_dir = %q, want default", cfg.Database.MigrationsDir)
	}

	// Auth
	if !cfg.Auth.AdminEnabled() {
		t.Error("auth admin should be enabled")
	}
	if cfg.Auth.AccessTokenTTL != 12*time.Hour {
		t.Errorf("auth.access_token_ttl = %v, want 12h", cfg.Auth.AccessTokenTTL)
	}

	// LLM
	if cfg.LLM.VisionProvider != ProviderGemini {
		t.Errorf("llm.vision_provider = %q", cfg.LLM.VisionProvider)
	}
	if cfg.LLM.RequestTimeout != 45*time.Second {
		t.Errorf("llm.request_timeout = %v, want 45s", cfg.LLM.RequestTimeout)
	}
	if cfg.LLM.AnthropicModel == "" {
		t.Error("llm.anthropic_model should have a default")
	}

	// Moderation
	if cfg.Moderation.QualityThreshold != 7.5 {
		t.Errorf("moderation.quality_threshold = %v, want 7.5", cfg.Moderation.QualityThreshold)
	}
	if cfg.Moderation.AuthenticityConfidence != 85 {
		t.Errorf("moderation.authenticity_confidence = %d, want 85", cfg.Moderation.AuthenticityConfidence)
	}
	if cfg.Moderation.NeutralScore != 5.0 {
		t.Errorf("moderation.neutral_score = %v, want default 5.0", cfg.Moderation.NeutralScore)
	}
	if cfg.Moderation.PhotoPromoteThreshold != 7.0 {
		t.Errorf("moderation.photo_promote_threshold = %v, want default 7.0", cfg.Moderation.PhotoPromoteThreshold)
	}
	if cfg.Moderation.MaxImageAttempts != 2 {
		t.Errorf("moderation.max_image_attempts = %d, want 2", cfg.Moderation.MaxImageAttempts)
	}

	// Enrichment
	if cfg.Enrichment.Mode != EnrichmentQueue {
		t.Errorf("enrichment.mode = %q", cfg.Enrichment.Mode)
	}

	// Storage
	if cfg.Storage.LocalDir != "/tmp/forkful-media" {
		t.Errorf("storage.local_dir = %q", cfg.Storage.LocalDir)
	}
	if cfg.Storage.MaxUploadBytes != 10<<20 {
		t.Errorf("storage.max_upload_bytes = %d, want 10MiB", cfg.Storage.MaxUploadBytes)
	}

	// Email
	if got := cfg.Email.Recipients(); len(got) != 2 || got[1] != "b@example.com" {
		t.Errorf("email recipients = %v", got)
	}

	// Rate limit
	if cfg.RateLimit.CommentLimit != 3 || cfg.RateLimit.CommentWindow != time.Minute {
		t.Errorf("ratelimit = %+v", cfg.RateLimit)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("MODERATION_QUALITY_THRESHOLD", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
	if cfg.Moderation.QualityThreshold != 8 {
		t.Errorf("moderation.quality_threshold = %v, want 8 (ENV override)", cfg.Moderation.QualityThreshold)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Moderation.QualityThreshold != 7.0 {
		t.Errorf("moderation.quality_threshold = %v, want 7.0 (default)", cfg.Moderation.QualityThreshold)
	}
	if cfg.Moderation.PhotoApprovalThreshold != 6.0 {
		t.Errorf("moderation.photo_approval_threshold = %v, want 6.0 (default)", cfg.Moderation.PhotoApprovalThreshold)
	}
	if cfg.Moderation.AuthenticityConfidence != 80 {
		t.Errorf("moderation.authenticity_confidence = %d, want 80 (default)", cfg.Moderation.AuthenticityConfidence)
	}
	if cfg.Moderation.MaxImageAttempts != 3 {
		t.Errorf("moderation.max_image_attempts = %d, want 3 (default)", cfg.Moderation.MaxImageAttempts)
	}
	if cfg.Enrichment.Mode != EnrichmentAsync {
		t.Errorf("enrichment.mode = %q, want async (default)", cfg.Enrichment.Mode)
	}
	if cfg.Auth.AdminEnabled() {
		t.Error("admin should be disabled without credentials")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"jwt secret too short", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"jwt secret empty", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"admin email without hash", func(c *Config) { c.Auth.AdminPasswordHash = "" }},
		{"admin hash not bcrypt", func(c *Config) { c.Auth.AdminPasswordHash = "plaintext" }},
		{"unknown text provider", func(c *Config) { c.LLM.TextProvider = "openai" }},
		{"anthropic without key", func(c *Config) { c.LLM.AnthropicAPIKey = "" }},
		{"gemini without key", func(c *Config) { c.LLM.VisionProvider = ProviderGemini }},
		{"zero request timeout", func(c *Config) { c.LLM.RequestTimeout = 0 }},
		{"negative retries", func(c *Config) { c.LLM.MaxRetries = -1 }},
		{"quality threshold above 10", func(c *Config) { c.Moderation.QualityThreshold = 10.5 }},
		{"negative neutral score", func(c *Config) { c.Moderation.NeutralScore = -1 }},
		{"authenticity above 100", func(c *Config) { c.Moderation.AuthenticityConfidence = 101 }},
		{"zero image attempts", func(c *Config) { c.Moderation.MaxImageAttempts = 0 }},
		{"unknown enrichment mode", func(c *Config) { c.Enrichment.Mode = "kafka" }},
		{"queue mode without workers", func(c *Config) { c.Enrichment.Mode = EnrichmentQueue; c.Enrichment.Workers = 0 }},
		{"unknown storage backend", func(c *Config) { c.Storage.Backend = "s3" }},
		{"gridfs without uri", func(c *Config) { c.Storage.Backend = StorageGridFS }},
		{"zero upload size", func(c *Config) { c.Storage.MaxUploadBytes = 0 }},
		{"zero comment limit", func(c *Config) { c.RateLimit.CommentLimit = 0 }},
		{"zero generate limit", func(c *Config) { c.RateLimit.GeneratePerMinute = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_BoundaryValues(t *testing.T) {
	cfg := validConfig()
	cfg.Moderation.QualityThreshold = 10
	cfg.Moderation.NeutralScore = 0
	cfg.Moderation.AuthenticityConfidence = 100
	cfg.Moderation.MaxImageAttempts = 1

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error for boundary values: %v", err)
	}
}

func TestEmailConfig_Recipients(t *testing.T) {
	t.Parallel()

	if got := (EmailConfig{}).Recipients(); got != nil {
		t.Errorf("expected nil recipients, got %v", got)
	}
	got := EmailConfig{AdminRecipients: " a@x.io,,b@x.io "}.Recipients()
	if len(got) != 2 || got[0] != "a@x.io" || got[1] != "b@x.io" {
		t.Errorf("recipients = %v", got)
	}
}

func TestLLMConfig_NeedsGemini(t *testing.T) {
	t.Parallel()

	if (LLMConfig{TextProvider: ProviderAnthropic, VisionProvider: ProviderAnthropic}).NeedsGemini() {
		t.Error("anthropic only should not need gemini")
	}
	if !(LLMConfig{TextProvider: ProviderAnthropic, VisionProvider: ProviderGemini}).NeedsGemini() {
		t.Error("gemini vision should need gemini")
	}
	if !(LLMConfig{TextProvider: ProviderAnthropic, VisionProvider: ProviderAnthropic, GeminiAPIKey: "k"}).NeedsGemini() {
		t.Error("gemini key enables image generation")
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Auth: AuthConfig{
			JWTSecret:         "this-is-a-very-long-jwt-secret-for-testing-32+",
			AdminEmail:        "chef@forkful.local",
			AdminPasswordHash: "$2a$10$abcdefghijklmnopqrstuu",
		},
		LLM: LLMConfig{
			TextProvider:    ProviderAnthropic,
			VisionProvider:  ProviderAnthropic,
			AnthropicAPIKey: "sk-ant",
			RequestTimeout:  time.Minute,
			MaxRetries:      2,
		},
		Moderation: ModerationConfig{
			QualityThreshold:       7.0,
			PhotoApprovalThreshold: 6.0,
			AuthenticityConfidence: 80,
			NeutralScore:           5.0,
			PhotoPromoteThreshold:  7.0,
			MaxImageAttempts:       3,
			ImageAcceptThreshold:   7.0,
		},
		Enrichment: EnrichmentConfig{
			Mode:         EnrichmentAsync,
			TaskTimeout:  3 * time.Minute,
			PollInterval: 5 * time.Second,
			BatchSize:    5,
			Workers:      2,
		},
		Storage: StorageConfig{
			Backend:        StorageLocal,
			LocalDir:       "./media",
			MaxUploadBytes: 10 << 20,
		},
		RateLimit: RateLimitConfig{
			GeneratePerMinute: 10,
			CommentLimit:      5,
			CommentWindow:     10 * time.Minute,
			CleanupInterval:   5 * time.Minute,
		},
	}
}
