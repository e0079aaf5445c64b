package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPasswordHash == "") {
		return fmt.Errorf("auth.admin_email and auth.admin_password_hash must be set together")
	}
	if c.Auth.AdminPasswordHash != "" && !strings.HasPrefix(c.Auth.AdminPasswordHash, "$2") {
		return fmt.Errorf("auth.admin_password_hash must be a bcrypt hash")
	}

	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Moderation.validate(); err != nil {
		return fmt.Errorf("moderation: %w", err)
	}
	if err := c.Enrichment.validate(); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}
	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if c.RateLimit.CommentLimit <= 0 || c.RateLimit.CommentWindow <= 0 {
		return fmt.Errorf("ratelimit: comment_limit and comment_window must be > 0")
	}
	if c.RateLimit.GeneratePerMinute <= 0 {
		return fmt.Errorf("ratelimit: generate_per_minute must be > 0 (got %d)", c.RateLimit.GeneratePerMinute)
	}

	return nil
}

func (l *LLMConfig) validate() error {
	for _, p := range []struct{ field, value string }{
		{"text_provider", l.TextProvider},
		{"vision_provider", l.VisionProvider},
	} {
		switch p.value {
		case ProviderAnthropic:
			if l.AnthropicAPIKey == "" {
				return fmt.Errorf("%s is %q but anthropic_api_key is empty", p.field, p.value)
			}
		case ProviderGemini:
			if l.GeminiAPIKey == "" {
				return fmt.Errorf("%s is %q but gemini_api_key is empty", p.field, p.value)
			}
		default:
			return fmt.Errorf("%s must be %q or %q (got %q)", p.field, ProviderAnthropic, ProviderGemini, p.value)
		}
	}
	if l.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %v)", l.RequestTimeout)
	}
	if l.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", l.MaxRetries)
	}
	return nil
}

func (m *ModerationConfig) validate() error {
	for _, t := range []struct {
		field string
		value float64
	}{
		{"quality_threshold", m.QualityThreshold},
		{"photo_approval_threshold", m.PhotoApprovalThreshold},
		{"neutral_score", m.NeutralScore},
		{"photo_promote_threshold", m.PhotoPromoteThreshold},
		{"image_accept_threshold", m.ImageAcceptThreshold},
	} {
		if t.value < 0 || t.value > 10 {
			return fmt.Errorf("%s must be within [0,10] (got %v)", t.field, t.value)
		}
	}
	if m.AuthenticityConfidence < 0 || m.AuthenticityConfidence > 100 {
		return fmt.Errorf("authenticity_confidence must be within [0,100] (got %d)", m.AuthenticityConfidence)
	}
	if m.MaxImageAttempts < 1 {
		return fmt.Errorf("max_image_attempts must be >= 1 (got %d)", m.MaxImageAttempts)
	}
	return nil
}

func (e *EnrichmentConfig) validate() error {
	switch e.Mode {
	case EnrichmentAsync, EnrichmentQueue:
	default:
		return fmt.Errorf("mode must be %q or %q (got %q)", EnrichmentAsync, EnrichmentQueue, e.Mode)
	}
	if e.TaskTimeout <= 0 {
		return fmt.Errorf("task_timeout must be > 0 (got %v)", e.TaskTimeout)
	}
	if e.Mode == EnrichmentQueue && (e.BatchSize <= 0 || e.Workers <= 0 || e.PollInterval <= 0) {
		return fmt.Errorf("queue mode needs positive batch_size, workers and poll_interval")
	}
	return nil
}

func (s *StorageConfig) validate() error {
	switch s.Backend {
	case StorageLocal:
		if s.LocalDir == "" {
			return fmt.Errorf("local_dir is required for the local backend")
		}
	case StorageGridFS:
		if s.MongoURI == "" {
			return fmt.Errorf("mongo_uri is required for the gridfs backend")
		}
	default:
		return fmt.Errorf("backend must be %q or %q (got %q)", StorageLocal, StorageGridFS, s.Backend)
	}
	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be > 0 (got %d)", s.MaxUploadBytes)
	}
	return nil
}
