package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	LLM        LLMConfig        `yaml:"llm"`
	Moderation ModerationConfig `yaml:"moderation"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Storage    StorageConfig    `yaml:"storage"`
	Email      EmailConfig      `yaml:"email"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	TrustProxy      bool          `yaml:"trust_proxy"      env:"SERVER_TRUST_PROXY"      env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"     env-default:"migrations"`
}

// AuthConfig holds admin authentication settings. The admin password is
// stored as a bcrypt hash.
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"          env:"AUTH_JWT_SECRET"          env-required:"true"`
	JWTIssuer         string        `yaml:"jwt_issuer"          env:"AUTH_JWT_ISSUER"          env-default:"forkful"`
	AccessTokenTTL    time.Duration `yaml:"access_token_ttl"    env:"AUTH_ACCESS_TOKEN_TTL"    env-default:"12h"`
	AdminEmail        string        `yaml:"admin_email"         env:"AUTH_ADMIN_EMAIL"`
	AdminPasswordHash string        `yaml:"admin_password_hash" env:"AUTH_ADMIN_PASSWORD_HASH"`
}

// AdminEnabled reports whether admin login is configured.
func (c AuthConfig) AdminEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// LLMConfig selects and configures the model providers.
type LLMConfig struct {
	TextProvider    string        `yaml:"text_provider"    env:"LLM_TEXT_PROVIDER"    env-default:"anthropic"`
	VisionProvider  string        `yaml:"vision_provider"  env:"LLM_VISION_PROVIDER"  env-default:"anthropic"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `yaml:"anthropic_model"  env:"LLM_ANTHROPIC_MODEL"  env-default:"claude-sonnet-4-5"`
	GeminiAPIKey    string        `yaml:"gemini_api_key"   env:"GEMINI_API_KEY"`
	GeminiModel     string        `yaml:"gemini_model"     env:"LLM_GEMINI_MODEL"     env-default:"gemini-2.5-flash"`
	ImageModel      string        `yaml:"image_model"      env:"LLM_IMAGE_MODEL"      env-default:"imagen-4.0-generate-001"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"LLM_REQUEST_TIMEOUT"  env-default:"60s"`
	MaxTokens       int           `yaml:"max_tokens"       env:"LLM_MAX_TOKENS"       env-default:"2048"`
	MaxRetries      int           `yaml:"max_retries"      env:"LLM_MAX_RETRIES"      env-default:"2"`
}

// NeedsGemini reports whether a Gemini client must be built. Image
// generation is only available with a Gemini key.
func (c LLMConfig) NeedsGemini() bool {
	return c.GeminiAPIKey != "" || c.TextProvider == ProviderGemini || c.VisionProvider == ProviderGemini
}

// ModerationConfig holds scoring thresholds.
type ModerationConfig struct {
	QualityThreshold       float64 `yaml:"quality_threshold"        env:"MODERATION_QUALITY_THRESHOLD"        env-default:"7.0"`
	PhotoApprovalThreshold float64 `yaml:"photo_approval_threshold" env:"MODERATION_PHOTO_APPROVAL_THRESHOLD" env-default:"6.0"`
	AuthenticityConfidence int     `yaml:"authenticity_confidence"  env:"MODERATION_AUTHENTICITY_CONFIDENCE"  env-default:"80"`
	NeutralScore           float64 `yaml:"neutral_score"            env:"MODERATION_NEUTRAL_SCORE"            env-default:"5.0"`
	PhotoPromoteThreshold  float64 `yaml:"photo_promote_threshold"  env:"MODERATION_PHOTO_PROMOTE_THRESHOLD"  env-default:"7.0"`
	MaxImageAttempts       int     `yaml:"max_image_attempts"       env:"MODERATION_MAX_IMAGE_ATTEMPTS"       env-default:"3"`
	ImageAcceptThreshold   float64 `yaml:"image_accept_threshold"   env:"MODERATION_IMAGE_ACCEPT_THRESHOLD"   env-default:"7.0"`
}

// Enrichment modes.
const (
	EnrichmentAsync = "async"
	EnrichmentQueue = "queue"
)

// EnrichmentConfig controls background scoring and image generation.
type EnrichmentConfig struct {
	Mode         string        `yaml:"mode"          env:"ENRICHMENT_MODE"          env-default:"async"`
	TaskTimeout  time.Duration `yaml:"task_timeout"  env:"ENRICHMENT_TASK_TIMEOUT"  env-default:"3m"`
	PollInterval time.Duration `yaml:"poll_interval" env:"ENRICHMENT_POLL_INTERVAL" env-default:"5s"`
	BatchSize    int           `yaml:"batch_size"    env:"ENRICHMENT_BATCH_SIZE"    env-default:"5"`
	Workers      int           `yaml:"workers"       env:"ENRICHMENT_WORKERS"       env-default:"2"`
}

// Storage backends.
const (
	StorageLocal  = "local"
	StorageGridFS = "gridfs"
)

// StorageConfig holds blob store settings.
type StorageConfig struct {
	Backend        string `yaml:"backend"          env:"STORAGE_BACKEND"          env-default:"local"`
	LocalDir       string `yaml:"local_dir"        env:"STORAGE_LOCAL_DIR"        env-default:"./media"`
	PublicBaseURL  string `yaml:"public_base_url"  env:"STORAGE_PUBLIC_BASE_URL"  env-default:"/media"`
	MongoURI       string `yaml:"mongo_uri"        env:"STORAGE_MONGO_URI"`
	MongoDatabase  string `yaml:"mongo_database"   env:"STORAGE_MONGO_DATABASE"   env-default:"forkful"`
	GridFSBucket   string `yaml:"gridfs_bucket"    env:"STORAGE_GRIDFS_BUCKET"    env-default:"media"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"STORAGE_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// EmailConfig holds transactional email settings. An empty endpoint
// disables sending.
type EmailConfig struct {
	Endpoint        string        `yaml:"endpoint"         env:"EMAIL_ENDPOINT"`
	APIKey          string        `yaml:"api_key"          env:"EMAIL_API_KEY"`
	From            string        `yaml:"from"             env:"EMAIL_FROM"             env-default:"noreply@forkful.local"`
	AdminRecipients string        `yaml:"admin_recipients" env:"EMAIL_ADMIN_RECIPIENTS"`
	Timeout         time.Duration `yaml:"timeout"          env:"EMAIL_TIMEOUT"          env-default:"10s"`
}

// Recipients returns the admin recipient list.
func (c EmailConfig) Recipients() []string {
	var out []string
	for _, r := range strings.Split(c.AdminRecipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// RateLimitConfig holds request limiting settings.
type RateLimitConfig struct {
	GeneratePerMinute int           `yaml:"generate_per_minute" env:"RATELIMIT_GENERATE_PER_MINUTE" env-default:"10"`
	CommentLimit      int           `yaml:"comment_limit"       env:"RATELIMIT_COMMENT_LIMIT"       env-default:"5"`
	CommentWindow     time.Duration `yaml:"comment_window"      env:"RATELIMIT_COMMENT_WINDOW"      env-default:"10m"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATELIMIT_CLEANUP_INTERVAL"    env-default:"5m"`
}
