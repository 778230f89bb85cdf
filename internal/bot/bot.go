package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/raine/ecoinventory-bot/internal/auth"
	"github.com/raine/ecoinventory-bot/internal/llm"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot is the main Telegram bot handler.
type Bot struct {
	tg           BotAPI
	state        BotState
	seedDemoData bool

	insights   llm.InsightGenerator
	classifier llm.ImageClassifier

	// Handlers
	authHandler      *AuthHandler
	inventoryHandler *InventoryHandler
	aiHandler        *AIHandler

	now      func() time.Time
	download func(getFileDirectURL func(string) (string, error), fileID string) ([]byte, error)
	// runJob runs an AI request off the session worker.
	runJob func(func())
	jobs   sync.WaitGroup
}

// Options configures a Bot.
type Options struct {
	// SeedDemoData fills every new session's inventory with demo products.
	SeedDemoData bool
}

// NewBot creates a new Bot instance.
func NewBot(tg BotAPI, authenticator auth.Authenticator, opts Options) *Bot {
	b := &Bot{
		tg:           tg,
		seedDemoData: opts.SeedDemoData,
		now:          time.Now,
		download:     downloadFileID,
	}
	b.runJob = func(f func()) {
		b.jobs.Add(1)
		go func() {
			defer b.jobs.Done()
			f()
		}()
	}

	b.state = b.NewBotState()
	b.authHandler = NewAuthHandler(authenticator)
	b.inventoryHandler = NewInventoryHandler(func() time.Time { return b.now() })
	b.aiHandler = NewAIHandler(b)

	return b
}

// SetLLMClients sets the clients used for insights and the photo scanner.
func (b *Bot) SetLLMClients(insights llm.InsightGenerator, classifier llm.ImageClassifier) {
	b.insights = insights
	b.classifier = classifier
}

// Shutdown waits for outstanding AI requests and stops all session workers.
func (b *Bot) Shutdown() {
	b.jobs.Wait()
	b.state.Shutdown()
}

// HandleUpdate is the main message router.
// It dispatches messages to the appropriate session worker for sequential processing.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.dispatchUpdate(ctx, update, false)
}

// handleUpdateSync is like HandleUpdate but waits for message processing to complete.
// Used in tests where we need synchronous behavior.
func (b *Bot) handleUpdateSync(ctx context.Context, update tgbotapi.Update) {
	b.dispatchUpdate(ctx, update, true)
}

func (b *Bot) dispatchUpdate(ctx context.Context, update tgbotapi.Update, sync bool) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	message := update.Message

	session := b.state.getUserSession(message.From.ID)

	msg := SessionMessage{Type: msgTypeText, Ctx: ctx, Message: message}
	if len(message.Photo) > 0 || isImageDocument(message.Document) {
		msg.Type = msgTypePhoto
	}

	log.Info().
		Int64("userId", message.From.ID).
		Str("type", msg.Type).
		Str("text", redactCommand(message.Text)).
		Msg("got message")

	if sync {
		session.SendSync(msg)
	} else {
		session.Send(msg)
	}
}

// HandleSessionMessage implements MessageHandler interface.
// This is called by the session worker goroutine for sequential processing.
func (b *Bot) HandleSessionMessage(ctx context.Context, session *UserSession, msg SessionMessage) {
	switch msg.Type {
	case msgTypeText:
		b.handleTextMessage(ctx, session, msg.Message)
	case msgTypePhoto:
		b.handlePhotoMessage(ctx, session, msg.Message)
	case msgTypeInsightsComplete:
		b.aiHandler.HandleInsightsComplete(session, msg.InsightsResult)
	case msgTypeScanComplete:
		b.aiHandler.HandleScanComplete(session, msg.ScanResult)
	}
}

func (b *Bot) handlePhotoMessage(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	if !session.isLoggedIn() {
		session.reply(MsgLoginRequired)
		return
	}
	b.aiHandler.HandlePhoto(ctx, session, message)
}

func (b *Bot) handleTextMessage(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	command, args := parseCommand(message.Text)
	argsStr := commandArgs(message.Text)

	// Commands available without signing in
	switch command {
	case "/login":
		b.authHandler.HandleLogin(ctx, session, args)
		return
	case "/signup":
		b.authHandler.HandleSignUp(ctx, session, argsStr)
		return
	case "/version":
		session.reply(MsgVersionInfo, Version, BuildTime)
		return
	}

	if !session.isLoggedIn() {
		session.reply(MsgLoginRequired)
		return
	}

	switch command {
	case "/start":
		session.reply(MsgStartPrompt, escapeMarkdown(session.user.Name))
	case "/help":
		session.reply(MsgHelp)
	case "/logout":
		b.authHandler.HandleLogout(session)
	case "/dashboard":
		b.inventoryHandler.HandleDashboard(session)
	case "/inventory":
		b.inventoryHandler.HandleList(session, argsStr)
	case "/add":
		b.inventoryHandler.HandleAdd(session, argsStr)
	case "/update":
		b.inventoryHandler.HandleUpdate(session, argsStr)
	case "/delete":
		b.inventoryHandler.HandleDelete(session, argsStr)
	case "/stock":
		b.inventoryHandler.HandleStock(session, args)
	case "/export":
		b.inventoryHandler.HandleExport(session)
	case "/insights":
		b.aiHandler.HandleInsights(ctx, session)
	default:
		session.reply(MsgStartPrompt, escapeMarkdown(session.user.Name))
	}
}

// redactCommand hides credentials from log lines.
func redactCommand(text string) string {
	command, _ := parseCommand(text)
	if command == "/login" || command == "/signup" {
		return command + " [redacted]"
	}
	return text
}
