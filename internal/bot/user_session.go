package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/raine/ecoinventory-bot/internal/auth"
	"github.com/raine/ecoinventory-bot/internal/inventory"
	"github.com/raine/ecoinventory-bot/internal/llm"
)

// Session message types.
const (
	msgTypeText             = "text"
	msgTypePhoto            = "photo"
	msgTypeInsightsComplete = "insights_complete"
	msgTypeScanComplete     = "scan_complete"
)

// SessionMessage represents a message to be processed by the session worker.
type SessionMessage struct {
	Type string
	Ctx  context.Context
	Done chan struct{} // Closed when processing is complete (for synchronous dispatch)

	// Message data (only one is set based on Type)
	Message        *tgbotapi.Message
	Text           string
	InsightsResult *InsightsResult
	ScanResult     *ScanResult
}

// InsightsResult is the outcome of a background insights request.
type InsightsResult struct {
	Text  string
	Error error
}

// ScanResult is the outcome of a background photo analysis.
type ScanResult struct {
	Analysis *llm.ImageAnalysis
	Error    error
}

// MessageSender abstracts the ability to send Telegram messages.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MessageHandler is the interface for processing session messages.
type MessageHandler interface {
	HandleSessionMessage(ctx context.Context, session *UserSession, msg SessionMessage)
}

// InsightsView holds the state of the AI insights view.
type InsightsView struct {
	Text    string
	Loading bool
}

// ScannerState holds the state of the AI photo scanner.
type ScannerState struct {
	Analyzing bool
}

// UserSession represents a user's session with the bot.
//
// Threading model:
//   - Each session has a dedicated worker goroutine that processes messages sequentially
//   - Handlers are called only from the worker and access session state without locks
//   - The session owns the user's inventory; AI requests run on their own
//     goroutines and hand results back through the inbox
type UserSession struct {
	userId int64
	sender MessageSender
	mu     sync.Mutex // For thread-safe accessors

	// Worker channel for sequential message processing
	inbox   chan SessionMessage
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	handler MessageHandler

	user      *auth.User
	inventory *inventory.State
	insights  InsightsView
	scanner   ScannerState
}

// --- Thread-safe accessors ---

// IsLoggedIn returns true if a user is signed in to the session.
func (s *UserSession) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// isLoggedIn is the worker-side variant of IsLoggedIn (no lock).
func (s *UserSession) isLoggedIn() bool {
	return s.user != nil
}

func (s *UserSession) setUser(u *auth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// userName returns the name recorded on stock movements.
func (s *UserSession) userName() string {
	if s.user == nil {
		return ""
	}
	return s.user.Name
}

func (s *UserSession) replyWithError(err error) tgbotapi.Message {
	log.Error().Stack().Err(err).Int64("userId", s.userId).Send()
	return s.send(formatReplyText(MsgUnexpectedErr, escapeMarkdown(err.Error())), tgbotapi.ModeMarkdown)
}

// sendTypingAction sends a "typing" chat action to show the user that the bot is processing.
func (s *UserSession) sendTypingAction() {
	action := tgbotapi.NewChatAction(s.userId, tgbotapi.ChatTyping)
	// Use Request instead of Send because sendChatAction returns a boolean, not a Message
	_, err := s.sender.Request(action)
	if err != nil {
		log.Debug().Err(err).Int64("userId", s.userId).Msg("failed to send typing action")
	}
}

// startTypingLoop sends a typing action every 4 seconds until the context is cancelled.
// This keeps the typing indicator visible while an AI request is outstanding.
func (s *UserSession) startTypingLoop(ctx context.Context) {
	s.sendTypingAction()

	ticker := time.NewTicker(4 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sendTypingAction()
		}
	}
}

func (s *UserSession) replyWithMessage(msg tgbotapi.MessageConfig) tgbotapi.Message {
	msg.ChatID = s.userId
	sent, err := s.sender.Send(msg)
	if err != nil {
		log.Error().Stack().
			Interface("msg", msg).
			Err(fmt.Errorf("failed to send reply message: %w", err)).Send()
	} else {
		log.Debug().Int64("userId", s.userId).Int("messageId", sent.MessageID).Msg("sent message")
	}

	return sent
}

// send sends already formatted text with the given parse mode.
func (s *UserSession) send(text, parseMode string) tgbotapi.Message {
	return s.replyWithMessage(tgbotapi.MessageConfig{
		Text:      text,
		ParseMode: parseMode,
	})
}

// reply formats text with the arguments and sends it as Markdown.
func (s *UserSession) reply(text string, a ...any) tgbotapi.Message {
	return s.send(formatReplyText(text, a...), tgbotapi.ModeMarkdown)
}

// --- Worker methods ---

// StartWorker starts the session's message processing worker goroutine.
// Must be called after setting the handler.
func (s *UserSession) StartWorker() {
	s.wg.Add(1)
	go s.runWorker()
}

// SetHandler sets the message handler for this session.
func (s *UserSession) SetHandler(handler MessageHandler) {
	s.handler = handler
}

// runWorker is the main worker loop that processes messages sequentially.
func (s *UserSession) runWorker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain any remaining messages and signal completion
			for {
				select {
				case msg := <-s.inbox:
					if msg.Done != nil {
						close(msg.Done)
					}
				default:
					return
				}
			}
		case msg := <-s.inbox:
			s.processMessage(msg)
		}
	}
}

// processMessage handles a single message from the inbox.
func (s *UserSession) processMessage(msg SessionMessage) {
	defer func() {
		// Recover from any panics to keep the worker running
		if r := recover(); r != nil {
			log.Error().
				Int64("userId", s.userId).
				Interface("panic", r).
				Msg("recovered from panic in session worker")
		}
		if msg.Done != nil {
			close(msg.Done)
		}
	}()

	if s.handler == nil {
		log.Error().Int64("userId", s.userId).Msg("session handler not set")
		return
	}

	s.handler.HandleSessionMessage(msg.Ctx, s, msg)
}

// Send queues a message for processing by the worker.
// This is non-blocking - it returns immediately after queuing.
func (s *UserSession) Send(msg SessionMessage) {
	if s.ctx.Err() != nil {
		if msg.Done != nil {
			close(msg.Done)
		}
		return
	}
	select {
	case s.inbox <- msg:
	case <-s.ctx.Done():
		if msg.Done != nil {
			close(msg.Done)
		}
	}
}

// SendSync queues a message and waits for it to be processed.
func (s *UserSession) SendSync(msg SessionMessage) {
	msg.Done = make(chan struct{})
	s.Send(msg)
	<-msg.Done
}

// Stop stops the worker and waits for it to finish.
func (s *UserSession) Stop() {
	s.cancel()
	s.wg.Wait()
}
