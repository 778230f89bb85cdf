package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/raine/ecoinventory-bot/internal/inventory"
)

// AIHandler runs the insights requestor and the photo scanner.
//
// Requests run on background jobs so the session worker stays responsive.
// Each job posts its result back to the session inbox, where it is applied
// by HandleInsightsComplete or HandleScanComplete. While a request is
// outstanding a second one of the same kind is refused.
type AIHandler struct {
	bot *Bot
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(bot *Bot) *AIHandler {
	return &AIHandler{bot: bot}
}

// HandleInsights starts an insights request for the session's products.
// Called from session worker - no locking needed.
func (h *AIHandler) HandleInsights(ctx context.Context, session *UserSession) {
	generator := h.bot.insights
	if generator == nil {
		session.reply(MsgAINotConfigured)
		return
	}
	if session.insights.Loading {
		session.reply(MsgInsightsInProgress)
		return
	}

	products := session.inventory.Products()
	if len(products) == 0 {
		session.reply(MsgInsightsNoProducts)
		return
	}

	session.insights.Loading = true
	session.reply(MsgInsightsLoading)

	h.bot.runJob(func() {
		typingCtx, cancelTyping := context.WithCancel(ctx)
		go session.startTypingLoop(typingCtx)

		text, err := generator.GenerateInsights(ctx, products)
		cancelTyping()

		session.Send(SessionMessage{
			Type:           msgTypeInsightsComplete,
			Ctx:            ctx,
			InsightsResult: &InsightsResult{Text: text, Error: err},
		})
	})
}

// HandleInsightsComplete applies a finished insights request to the view.
func (h *AIHandler) HandleInsightsComplete(session *UserSession, result *InsightsResult) {
	session.insights.Loading = false
	if result == nil {
		return
	}

	switch {
	case result.Error != nil:
		log.Error().Err(result.Error).Int64("userId", session.userId).Msg("insights request failed")
		session.insights.Text = MsgInsightsFailed
	case strings.TrimSpace(result.Text) == "":
		session.insights.Text = MsgInsightsEmpty
	default:
		session.insights.Text = result.Text
	}

	// Model output is free-form text, so it is sent without a parse mode.
	session.send(MsgInsightsTitle+"\n\n"+session.insights.Text, "")
}

// HandlePhoto classifies a product photo and adds the detected product.
func (h *AIHandler) HandlePhoto(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	classifier := h.bot.classifier
	if classifier == nil {
		session.reply(MsgAINotConfigured)
		return
	}
	if session.scanner.Analyzing {
		session.reply(MsgScanInProgress)
		return
	}

	fileID, ok := imageFileID(message)
	if !ok {
		return
	}
	session.scanner.Analyzing = true
	session.reply(MsgScanStarted)

	h.bot.runJob(func() {
		typingCtx, cancelTyping := context.WithCancel(ctx)
		go session.startTypingLoop(typingCtx)
		defer cancelTyping()

		result := &ScanResult{}
		data, err := h.bot.download(h.bot.tg.GetFileDirectURL, fileID)
		if err != nil {
			result.Error = err
		} else {
			result.Analysis, result.Error = classifier.ClassifyImage(ctx, data)
		}

		session.Send(SessionMessage{
			Type:       msgTypeScanComplete,
			Ctx:        ctx,
			ScanResult: result,
		})
	})
}

// imageFileID returns the file to classify: the largest size of a photo, or
// an image sent uncompressed as a document.
func imageFileID(message *tgbotapi.Message) (string, bool) {
	if len(message.Photo) > 0 {
		return message.Photo[len(message.Photo)-1].FileID, true
	}
	if isImageDocument(message.Document) {
		return message.Document.FileID, true
	}
	return "", false
}

func isImageDocument(doc *tgbotapi.Document) bool {
	return doc != nil && strings.HasPrefix(doc.MimeType, "image/")
}

// HandleScanComplete adds the product detected in a photo to the inventory.
func (h *AIHandler) HandleScanComplete(session *UserSession, result *ScanResult) {
	session.scanner.Analyzing = false
	if result == nil {
		return
	}
	if result.Error != nil || result.Analysis == nil {
		log.Error().Err(result.Error).Int64("userId", session.userId).Msg("photo analysis failed")
		session.reply(MsgScanFailed)
		return
	}

	p := session.inventory.ProductFromScan(result.Analysis.ScanResult(), h.bot.now())
	if err := session.inventory.Add(p); err != nil {
		session.replyWithError(err)
		return
	}

	log.Info().Int64("userId", session.userId).Str("sku", p.SKU).Str("name", p.Name).Msg("product added from photo")
	session.reply(MsgScanAdded,
		escapeMarkdown(p.Name),
		escapeMarkdown(p.Category),
		codeSpan(p.SKU),
		inventory.FormatPrice(p.Price),
		escapeMarkdown(p.Description),
	)
}
