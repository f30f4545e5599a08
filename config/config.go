package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   Server
	Database Database
	AI       AI
	Auth     Auth
	Practice Practice
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type AI struct {
	Provider           string
	GeminiApiKey       string
	OpenAIApiKey       string
	OpenAIBaseURL      string
	Model              string
	TranscriptionModel string
	Temperature        float32
	QuestionMaxTokens  int
	FeedbackMaxTokens  int
	RequestsPerMinute  int
}

type Auth struct {
	JWTSecret string
	// AllowAnonymous lets requests without a bearer token practice as "anonymous".
	AllowAnonymous bool
}

type Practice struct {
	AICount              int
	MinAnswerLength      int
	MaxAnswerLength      int
	WarningAnswerLength  int
	QuestionTimeout      time.Duration
	FeedbackTimeout      time.Duration
	TranscriptionTimeout time.Duration
	MaxAudioBytes        int64
	AutoSave             bool
	SessionIdleTTL       time.Duration
	HistoryLimit         int
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_SSLMODE", "disable")

	viper.SetDefault("AI_PROVIDER", "openai")
	viper.SetDefault("AI_MODEL", "gpt-4o-mini")
	viper.SetDefault("AI_TRANSCRIPTION_MODEL", "whisper-1")
	viper.SetDefault("AI_TEMPERATURE", 0.7)
	viper.SetDefault("AI_QUESTION_MAX_TOKENS", 1000)
	viper.SetDefault("AI_FEEDBACK_MAX_TOKENS", 1500)
	viper.SetDefault("AI_REQUESTS_PER_MINUTE", 60)

	viper.SetDefault("AUTH_ALLOW_ANONYMOUS", false)

	viper.SetDefault("PRACTICE_AI_COUNT", 3)
	viper.SetDefault("PRACTICE_MIN_ANSWER_LENGTH", 10)
	viper.SetDefault("PRACTICE_MAX_ANSWER_LENGTH", 2000)
	viper.SetDefault("PRACTICE_WARNING_ANSWER_LENGTH", 1500)
	viper.SetDefault("PRACTICE_QUESTION_TIMEOUT", "35s")
	viper.SetDefault("PRACTICE_FEEDBACK_TIMEOUT", "45s")
	viper.SetDefault("PRACTICE_TRANSCRIPTION_TIMEOUT", "60s")
	viper.SetDefault("PRACTICE_MAX_AUDIO_BYTES", 25*1024*1024)
	viper.SetDefault("PRACTICE_AUTO_SAVE", true)
	viper.SetDefault("PRACTICE_SESSION_IDLE_TTL", "30m")
	viper.SetDefault("PRACTICE_HISTORY_LIMIT", 10)
}

// NewConfig loads configuration from .env and the environment.
func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.AI.Provider = viper.GetString("AI_PROVIDER")
	config.AI.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.AI.OpenAIApiKey = viper.GetString("OPENAI_API_KEY")
	config.AI.OpenAIBaseURL = viper.GetString("OPENAI_BASE_URL")
	config.AI.Model = viper.GetString("AI_MODEL")
	config.AI.TranscriptionModel = viper.GetString("AI_TRANSCRIPTION_MODEL")
	config.AI.Temperature = float32(viper.GetFloat64("AI_TEMPERATURE"))
	config.AI.QuestionMaxTokens = viper.GetInt("AI_QUESTION_MAX_TOKENS")
	config.AI.FeedbackMaxTokens = viper.GetInt("AI_FEEDBACK_MAX_TOKENS")
	config.AI.RequestsPerMinute = viper.GetInt("AI_REQUESTS_PER_MINUTE")

	config.Auth.JWTSecret = viper.GetString("AUTH_JWT_SECRET")
	config.Auth.AllowAnonymous = viper.GetBool("AUTH_ALLOW_ANONYMOUS")

	config.Practice.AICount = viper.GetInt("PRACTICE_AI_COUNT")
	config.Practice.MinAnswerLength = viper.GetInt("PRACTICE_MIN_ANSWER_LENGTH")
	config.Practice.MaxAnswerLength = viper.GetInt("PRACTICE_MAX_ANSWER_LENGTH")
	config.Practice.WarningAnswerLength = viper.GetInt("PRACTICE_WARNING_ANSWER_LENGTH")
	config.Practice.QuestionTimeout = viper.GetDuration("PRACTICE_QUESTION_TIMEOUT")
	config.Practice.FeedbackTimeout = viper.GetDuration("PRACTICE_FEEDBACK_TIMEOUT")
	config.Practice.TranscriptionTimeout = viper.GetDuration("PRACTICE_TRANSCRIPTION_TIMEOUT")
	config.Practice.MaxAudioBytes = viper.GetInt64("PRACTICE_MAX_AUDIO_BYTES")
	config.Practice.AutoSave = viper.GetBool("PRACTICE_AUTO_SAVE")
	config.Practice.SessionIdleTTL = viper.GetDuration("PRACTICE_SESSION_IDLE_TTL")
	config.Practice.HistoryLimit = viper.GetInt("PRACTICE_HISTORY_LIMIT")

	log.Info().
		Str("port", config.Server.Port).
		Str("ai_provider", config.AI.Provider).
		Str("ai_model", config.AI.Model).
		Int("ai_count", config.Practice.AICount).
		Bool("auto_save", config.Practice.AutoSave).
		Msg("Config loaded")
	return &config, nil
}
