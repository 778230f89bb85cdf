package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "key")

	assert.Equal(t, []string{"BOT_TOKEN"}, CheckRequired())

	t.Setenv("BOT_TOKEN", "token")
	assert.Empty(t, CheckRequired())
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("SEED_DEMO_DATA", "")

	cfg := FromEnv()
	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, "", cfg.LogFile)
	assert.True(t, cfg.SeedDemoData)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("LOG_FILE", "bot.log")
	t.Setenv("SEED_DEMO_DATA", "false")

	cfg := FromEnv()
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "bot.log", cfg.LogFile)
	assert.False(t, cfg.SeedDemoData)
}

func TestFromEnv_InvalidSeedFlagKeepsDefault(t *testing.T) {
	t.Setenv("SEED_DEMO_DATA", "maybe")

	assert.True(t, FromEnv().SeedDemoData)
}
