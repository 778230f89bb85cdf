package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/raine/ecoinventory-bot/internal/llm"
)

const (
	AppName     = "ecoinventory-bot"
	EnvFileName = "config.env"
)

// RequiredEnvVars lists the environment variables the bot cannot start without.
var RequiredEnvVars = []string{"BOT_TOKEN", "GEMINI_API_KEY"}

// Config holds runtime settings read from the environment.
type Config struct {
	BotToken     string
	GeminiAPIKey string
	GeminiModel  string
	LogFile      string // empty disables file logging
	SeedDemoData bool
}

// LoadEnvFile loads environment variables from config.env in the working
// directory and then from the user's config directory. Variables already set
// in the environment win. Errors are ignored since the files may not exist.
func LoadEnvFile() {
	_ = godotenv.Load(EnvFileName)

	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// CheckRequired returns the names of required variables that are not set.
func CheckRequired() []string {
	var missing []string
	for _, v := range RequiredEnvVars {
		if os.Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	return missing
}

// FromEnv reads the configuration from the environment.
func FromEnv() Config {
	cfg := Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		LogFile:      os.Getenv("LOG_FILE"),
		SeedDemoData: true,
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = llm.DefaultModel
	}
	if v := os.Getenv("SEED_DEMO_DATA"); v != "" {
		if seed, err := strconv.ParseBool(v); err == nil {
			cfg.SeedDemoData = seed
		}
	}
	return cfg
}
