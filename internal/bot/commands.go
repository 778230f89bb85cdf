package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// Command is an entry in the Telegram command menu.
type Command struct {
	Name        string // without the leading slash
	Description string
}

// botCommands is the command menu shown by Telegram clients.
var botCommands = []Command{
	{Name: "dashboard", Description: "Stock overview"},
	{Name: "inventory", Description: "List and search products"},
	{Name: "add", Description: "Add a product"},
	{Name: "update", Description: "Edit a product"},
	{Name: "stock", Description: "Record stock in or out"},
	{Name: "delete", Description: "Delete a product (admins)"},
	{Name: "insights", Description: "AI optimization insights"},
	{Name: "export", Description: "Download a spreadsheet report"},
	{Name: "login", Description: "Sign in"},
	{Name: "signup", Description: "Create an account"},
	{Name: "logout", Description: "Sign out"},
	{Name: "help", Description: "Show all commands"},
	{Name: "version", Description: "Show version information"},
}

// RegisterCommands sets the bot's command menu in Telegram.
// This should be called once at startup.
func RegisterCommands(tg BotAPI) {
	commands := make([]tgbotapi.BotCommand, len(botCommands))
	for i, cmd := range botCommands {
		commands[i] = tgbotapi.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		}
	}

	if _, err := tg.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		log.Error().Err(err).Msg("failed to set bot commands")
		return
	}
	log.Info().Int("count", len(commands)).Msg("registered bot commands")
}
