package config

import (
	"path/filepath"
	"time"
)

const (
	AppName    = "LingoVibe"
	AppVersion = "1.0.0"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	AI        AIConfig        `yaml:"ai"`
	Session   SessionConfig   `yaml:"session"`
	Audio     AudioConfig     `yaml:"audio"`
	Log       LogConfig       `yaml:"log"`
	Snowflake SnowflakeConfig `yaml:"snowflake"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"LINGO_ADDR"             env-default:":8080"`
	StaticDir       string        `yaml:"static_dir"       env:"LINGO_STATIC_DIR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"LINGO_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects and locates the persistent store.
type StorageConfig struct {
	Driver    string `yaml:"driver"     env:"LINGO_STORE_DRIVER" env-default:"sqlite"`
	DataDir   string `yaml:"data_dir"   env:"LINGO_DATA_DIR"     env-default:"./data"`
	DBPath    string `yaml:"db_path"    env:"LINGO_DB_PATH"`
	BadgerDir string `yaml:"badger_dir" env:"LINGO_BADGER_DIR"`

	// MaintenanceInterval schedules WAL checkpoints or value log GC; zero disables it.
	MaintenanceInterval time.Duration `yaml:"maintenance_interval" env:"LINGO_STORE_MAINTENANCE_INTERVAL" env-default:"30m"`
}

// AIConfig is the fallback provider configuration used when nothing is
// stored under the ai.* settings keys.
type AIConfig struct {
	Provider        string        `yaml:"provider"         env:"LINGO_AI_PROVIDER"         env-default:"gemini"`
	APIKey          string        `yaml:"api_key"          env:"LINGO_AI_API_KEY"`
	BaseURL         string        `yaml:"base_url"         env:"LINGO_AI_BASE_URL"`
	Model           string        `yaml:"model"            env:"LINGO_AI_MODEL"`
	ImageModel      string        `yaml:"image_model"      env:"LINGO_AI_IMAGE_MODEL"`
	SpeechModel     string        `yaml:"speech_model"     env:"LINGO_AI_SPEECH_MODEL"`
	Voice           string        `yaml:"voice"            env:"LINGO_AI_VOICE"`
	Thinking        bool          `yaml:"thinking"         env:"LINGO_AI_THINKING"         env-default:"false"`
	ThinkingBudget  int           `yaml:"thinking_budget"  env:"LINGO_AI_THINKING_BUDGET"  env-default:"0"`
	ReasoningEffort string        `yaml:"reasoning_effort" env:"LINGO_AI_REASONING_EFFORT"`
	RateLimit       int           `yaml:"rate_limit"       env:"LINGO_AI_RATE_LIMIT"       env-default:"10"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"LINGO_AI_REQUEST_TIMEOUT"  env-default:"60s"`
	ProxyURL        string        `yaml:"proxy_url"        env:"LINGO_AI_PROXY_URL"`
}

// SessionConfig holds session defaults.
type SessionConfig struct {
	NativeLang string        `yaml:"native_lang" env:"LINGO_NATIVE_LANG" env-default:"en"`
	TargetLang string        `yaml:"target_lang" env:"LINGO_TARGET_LANG" env-default:"ja"`
	FlipDelay  time.Duration `yaml:"flip_delay"  env:"LINGO_FLIP_DELAY"  env-default:"200ms"`
}

// AudioConfig controls host speaker playback.
type AudioConfig struct {
	Enabled bool `yaml:"enabled" env:"LINGO_AUDIO_ENABLED" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"        env:"LINGO_LOG_LEVEL"        env-default:"info"`
	File       string `yaml:"file"         env:"LINGO_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LINGO_LOG_MAX_SIZE_MB"  env-default:"10"`
	MaxBackups int    `yaml:"max_backups"  env:"LINGO_LOG_MAX_BACKUPS"  env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LINGO_LOG_MAX_AGE_DAYS" env-default:"28"`
}

// SnowflakeConfig holds the id generator node.
type SnowflakeConfig struct {
	NodeID int64 `yaml:"node_id" env:"LINGO_NODE_ID" env-default:"1"`
}

// SQLitePath returns the database file, defaulting into the data dir.
func (s StorageConfig) SQLitePath() string {
	if s.DBPath != "" {
		return filepath.Clean(s.DBPath)
	}
	return filepath.Join(s.DataDir, "lingovibe.db")
}

// BadgerPath returns the badger directory, defaulting into the data dir.
func (s StorageConfig) BadgerPath() string {
	if s.BadgerDir != "" {
		return filepath.Clean(s.BadgerDir)
	}
	return filepath.Join(s.DataDir, "badger")
}
