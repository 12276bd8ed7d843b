// Package config loads clipforge configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the clipforge server and pipeline.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Source     SourceConfig
	Transcribe TranscribeConfig
	LLM        LLMConfig
	Blob       BlobConfig
	Media      MediaConfig
	Pipeline   PipelineConfig
	Review     ReviewConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type SourceConfig struct {
	YouTubeAPIKey string
	YTDLPPath     string
}

type TranscribeConfig struct {
	Provider   string // whisper
	WhisperCmd string
	Model      string
	Timeout    time.Duration
}

type LLMConfig struct {
	Provider  string // openai, anthropic, ollama
	Timeout   time.Duration
	Ollama    OllamaConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type BlobConfig struct {
	Backend    string // s3, local
	Bucket     string
	Region     string
	LocalDir   string
	PresignTTL time.Duration
}

type MediaConfig struct {
	FFmpegPath     string
	TempDir        string
	AspectRatio    string // w:h of the rendered short, e.g. 9:16
	CreditTemplate string // attribution overlay, %s = channel title; empty disables
	Timeout        time.Duration
}

type PipelineConfig struct {
	BatchSize          int
	Workers            int
	MinClipMs          int64
	MaxClipMs          int64
	MinTranscriptChars int
	ApprovalThreshold  int
	DownloadTimeout    time.Duration
	RunLockTTL         time.Duration
}

type ReviewConfig struct {
	// Bcrypt hash of the reviewer API key; empty disables auth (dev only).
	APIKeyHash string
	// API requests allowed per caller per minute.
	RateLimitPerMin int
}

var validLLMProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"ollama":    true,
}

var validTranscribers = map[string]bool{
	"whisper": true,
}

var validBlobBackends = map[string]bool{
	"s3":    true,
	"local": true,
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value
// is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("CLIPFORGE_PORT", 8080),
			Env:  envString("CLIPFORGE_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Source: SourceConfig{
			YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
			YTDLPPath:     envString("YTDLP_PATH", "yt-dlp"),
		},
		Transcribe: TranscribeConfig{
			Provider:   envString("TRANSCRIBE_PROVIDER", "whisper"),
			WhisperCmd: envString("WHISPER_CMD", "whisper"),
			Model:      envString("WHISPER_MODEL", "small"),
			Timeout:    envDurationSecs("TRANSCRIBE_TIMEOUT_SECS", 1200),
		},
		LLM: LLMConfig{
			Provider: os.Getenv("LLM_PROVIDER"),
			Timeout:  envDurationSecs("LLM_TIMEOUT_SECS", 120),
			Ollama: OllamaConfig{
				BaseURL: envString("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   envString("OLLAMA_MODEL", "llama3"),
			},
			OpenAI: OpenAIConfig{
				APIKey: os.Getenv("OPENAI_API_KEY"),
				Model:  envString("OPENAI_MODEL", "gpt-4o-mini"),
			},
			Anthropic: AnthropicConfig{
				APIKey: os.Getenv("ANTHROPIC_API_KEY"),
				Model:  envString("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
			},
		},
		Blob: BlobConfig{
			Backend:    envString("BLOB_BACKEND", "s3"),
			Bucket:     os.Getenv("BLOB_BUCKET"),
			Region:     envString("BLOB_REGION", "us-east-1"),
			LocalDir:   envString("BLOB_LOCAL_DIR", "data/blobs"),
			PresignTTL: envDuration("BLOB_PRESIGN_TTL", 1*time.Hour),
		},
		Media: MediaConfig{
			FFmpegPath:     envString("FFMPEG_PATH", "ffmpeg"),
			TempDir:        envString("MEDIA_TEMP_DIR", os.TempDir()),
			AspectRatio:    envString("MEDIA_ASPECT_RATIO", "9:16"),
			CreditTemplate: envString("MEDIA_CREDIT_TEMPLATE", "Source: %s"),
			Timeout:        envDurationSecs("MEDIA_TIMEOUT_SECS", 900),
		},
		Pipeline: PipelineConfig{
			BatchSize:          envInt("PIPELINE_BATCH_SIZE", 10),
			Workers:            envInt("PIPELINE_WORKERS", 4),
			MinClipMs:          int64(envInt("PIPELINE_MIN_CLIP_MS", 15000)),
			MaxClipMs:          int64(envInt("PIPELINE_MAX_CLIP_MS", 180000)),
			MinTranscriptChars: envInt("PIPELINE_MIN_TRANSCRIPT_CHARS", 200),
			ApprovalThreshold:  envInt("PIPELINE_APPROVAL_THRESHOLD", 70),
			DownloadTimeout:    envDurationSecs("PIPELINE_DOWNLOAD_TIMEOUT_SECS", 600),
			RunLockTTL:         envDuration("PIPELINE_RUN_LOCK_TTL", 30*time.Minute),
		},
		Review: ReviewConfig{
			APIKeyHash:      os.Getenv("REVIEW_API_KEY_HASH"),
			RateLimitPerMin: envInt("REVIEW_RATE_LIMIT_PER_MIN", 60),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Source.YouTubeAPIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}

	if !validTranscribers[c.Transcribe.Provider] {
		return fmt.Errorf("TRANSCRIBE_PROVIDER must be whisper; got %q", c.Transcribe.Provider)
	}

	if c.LLM.Provider == "" {
		return fmt.Errorf("LLM_PROVIDER is required")
	}
	if !validLLMProviders[c.LLM.Provider] {
		return fmt.Errorf("LLM_PROVIDER must be one of openai, anthropic, ollama; got %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "openai" && c.LLM.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER is openai")
	}
	if c.LLM.Provider == "anthropic" && c.LLM.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER is anthropic")
	}

	if !validBlobBackends[c.Blob.Backend] {
		return fmt.Errorf("BLOB_BACKEND must be one of s3, local; got %q", c.Blob.Backend)
	}
	if c.Blob.Backend == "s3" && c.Blob.Bucket == "" {
		return fmt.Errorf("BLOB_BUCKET is required when BLOB_BACKEND is s3")
	}

	if c.Pipeline.MinClipMs <= 0 || c.Pipeline.MaxClipMs <= c.Pipeline.MinClipMs {
		return fmt.Errorf("invalid clip bounds: min=%d max=%d", c.Pipeline.MinClipMs, c.Pipeline.MaxClipMs)
	}
	if c.Pipeline.ApprovalThreshold < 0 || c.Pipeline.ApprovalThreshold > 100 {
		return fmt.Errorf("PIPELINE_APPROVAL_THRESHOLD must be in [0,100]; got %d", c.Pipeline.ApprovalThreshold)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultSecs int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(defaultSecs) * time.Second
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defaultSecs) * time.Second
	}
	return time.Duration(secs) * time.Second
}
