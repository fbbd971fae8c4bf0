package config

// Config holds all application configuration.
// It organizes settings into logical groups and is loaded once at startup;
// the review engine receives it as an immutable value at session-start
// time rather than reading ambient state mid-session.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
	Audio    AudioConfig    `mapstructure:"audio"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// ReviewConfig carries the review engine's tuning constants. The
// proficiency and fuzzing values are heuristics; they are configurable
// but their defaults preserve the established behavior.
type ReviewConfig struct {
	// BatchSize caps the per-session review queue.
	BatchSize int `mapstructure:"batch_size" validate:"required,gt=0"`

	// RetentionTarget is the scheduling engine's requested recall
	// probability.
	RetentionTarget float64 `mapstructure:"retention_target" validate:"required,gt=0,lt=1"`

	// FuzzThresholdDays: intervals longer than this get their due date
	// jittered so cards scheduled together don't cluster on the same
	// future day.
	FuzzThresholdDays uint64 `mapstructure:"fuzz_threshold_days"`

	// FuzzRatio is the maximum relative jitter applied to a fuzzed
	// interval (0.05 means a uniform factor in [0.95, 1.05]).
	FuzzRatio float64 `mapstructure:"fuzz_ratio" validate:"gte=0,lt=1"`

	// FirstCorrectFloor is the minimum proficiency score after a first
	// correct recall of a never-graded word.
	FirstCorrectFloor int `mapstructure:"first_correct_floor" validate:"gte=0,lte=5"`
}

// AudioConfig configures the pronunciation-playback collaborator.
type AudioConfig struct {
	// TTSBaseURL is the text-to-speech endpoint words are played
	// through when they carry no recorded audio URL. Empty disables
	// playback.
	TTSBaseURL string `mapstructure:"tts_base_url" validate:"omitempty,url"`
}
