package bot

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/raine/ecoinventory-bot/internal/inventory"
)

const (
	chartBarWidth    = 20
	recentActivityN  = 5
	exportFileLayout = "20060102"
)

// InventoryHandler handles the product list, stock movements, the dashboard
// and the spreadsheet export.
type InventoryHandler struct {
	now func() time.Time
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(now func() time.Time) *InventoryHandler {
	return &InventoryHandler{now: now}
}

// HandleDashboard shows the headline numbers, a stock level chart and recent activity.
// Called from session worker - no locking needed.
func (h *InventoryHandler) HandleDashboard(session *UserSession) {
	stats := session.inventory.Stats()

	var sb strings.Builder
	sb.WriteString(formatReplyText(MsgDashboard, stats.TotalItems, stats.LowStockItems, formatMoney(stats.TotalValue)))

	if bars := session.inventory.StockChart(inventory.DashboardChartLimit); len(bars) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(MsgDashboardChartTitle)
		sb.WriteString("\n```\n")
		sb.WriteString(renderStockChart(bars))
		sb.WriteString("```")
	}

	sb.WriteString("\n\n")
	sb.WriteString(MsgRecentActivityTitle)
	sb.WriteString("\n")
	if len(stats.RecentTransactions) == 0 {
		sb.WriteString(MsgNoRecentActivity)
	}
	for i, tx := range stats.RecentTransactions {
		if i == recentActivityN {
			break
		}
		fmt.Fprintf(&sb, "%s %d × %s by %s, %s\n",
			tx.Type, tx.Quantity, escapeMarkdown(tx.ProductName), escapeMarkdown(tx.User), tx.Date.Format("Jan 2 15:04"))
	}

	session.send(strings.TrimRight(sb.String(), "\n"), tgbotapi.ModeMarkdown)
}

// renderStockChart draws one text bar per product scaled to the largest value.
func renderStockChart(bars []inventory.ChartBar) string {
	maxValue := 1
	nameWidth := 0
	for _, b := range bars {
		maxValue = max(maxValue, b.Stock, b.Min)
		nameWidth = max(nameWidth, len([]rune(b.Name)))
	}

	var sb strings.Builder
	for _, b := range bars {
		filled := int(float64(b.Stock) / float64(maxValue) * chartBarWidth)
		filled = min(max(filled, 0), chartBarWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("·", chartBarWidth-filled)
		marker := ""
		if b.Low {
			marker = " low"
		}
		fmt.Fprintf(&sb, "%-*s %s %d/%d%s\n", nameWidth, b.Name, bar, b.Stock, b.Min, marker)
	}
	return sb.String()
}

// HandleList lists the products, optionally filtered by a search term.
func (h *InventoryHandler) HandleList(session *UserSession, term string) {
	products := session.inventory.Search(term)
	if len(products) == 0 {
		session.reply(MsgNoProductsFound)
		return
	}

	var sb strings.Builder
	sb.WriteString(formatReplyText(MsgInventoryHeader, pluralize("product", "products", len(products))))
	sb.WriteString("\n\n")
	for _, p := range products {
		sb.WriteString(formatProductLine(p))
		sb.WriteString("\n")
	}
	session.send(strings.TrimRight(sb.String(), "\n"), tgbotapi.ModeMarkdown)
}

func formatProductLine(p inventory.Product) string {
	line := fmt.Sprintf("`%s` *%s* (%s)\nQty %d, min %d, $%s",
		codeSpan(productRef(p)), escapeMarkdown(p.Name), escapeMarkdown(p.Category),
		p.Quantity, p.MinStock, formatMoney(p.Price))
	if p.IsLowStock() {
		line += " ⚠️ low stock"
	}
	return line
}

// productRef is how a product is referred to in commands: its SKU, or the ID
// when there is no SKU.
func productRef(p inventory.Product) string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.ID
}

// HandleAdd handles "/add name;category;sku;quantity;minStock;price[;description]".
// An empty SKU gets a generated one.
func (h *InventoryHandler) HandleAdd(session *UserSession, argsStr string) {
	fields := splitFields(argsStr)
	if argsStr == "" || len(fields) < 6 || len(fields) > 7 {
		session.reply(MsgAddUsage)
		return
	}

	p := inventory.Product{
		Name:      fields[0],
		Category:  fields[1],
		SKU:       fields[2],
		UpdatedAt: h.now(),
	}
	if len(fields) == 7 {
		p.Description = fields[6]
	}
	for i, key := range []string{"quantity", "minStock", "price"} {
		if err := setProductField(&p, key, fields[3+i]); err != nil {
			session.reply(MsgInvalidField, key, escapeMarkdown(fields[3+i]))
			return
		}
	}
	if p.SKU == "" {
		p.SKU = session.inventory.NextAutoSKU()
	}

	if err := session.inventory.Add(p); err != nil {
		h.replyInventoryError(session, err, p.SKU)
		return
	}
	log.Info().Int64("userId", session.userId).Str("sku", p.SKU).Msg("product added")
	session.reply(MsgProductAdded, escapeMarkdown(p.Name), codeSpan(p.SKU))
}

// HandleUpdate handles "/update <id|sku> field=value; field=value".
func (h *InventoryHandler) HandleUpdate(session *UserSession, argsStr string) {
	ref, assignments, _ := strings.Cut(argsStr, " ")
	assignments = strings.TrimSpace(assignments)
	if ref == "" || assignments == "" {
		session.reply(MsgUpdateUsage)
		return
	}

	p, ok := session.inventory.Find(ref)
	if !ok {
		session.reply(MsgProductNotFound, codeSpan(ref))
		return
	}

	for _, assignment := range splitFields(assignments) {
		if assignment == "" {
			continue
		}
		key, value, found := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !found {
			session.reply(MsgUpdateUsage)
			return
		}
		if err := setProductField(&p, key, strings.TrimSpace(value)); err != nil {
			if errors.Is(err, errUnknownField) {
				session.reply(MsgUnknownField, key)
			} else {
				session.reply(MsgInvalidField, key, escapeMarkdown(value))
			}
			return
		}
	}

	if err := session.inventory.Update(p, h.now()); err != nil {
		h.replyInventoryError(session, err, ref)
		return
	}
	session.reply(MsgProductUpdated, escapeMarkdown(p.Name))
}

var errUnknownField = errors.New("unknown field")

// setProductField sets one editable field from its text form.
func setProductField(p *inventory.Product, key, value string) error {
	switch strings.ToLower(key) {
	case "name":
		p.Name = value
	case "category":
		p.Category = value
	case "sku":
		p.SKU = value
	case "description":
		p.Description = value
	case "quantity", "qty":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		p.Quantity = n
	case "minstock", "min":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		p.MinStock = n
	case "price":
		f, err := strconv.ParseFloat(strings.TrimPrefix(value, "$"), 64)
		if err != nil {
			return err
		}
		p.Price = f
	default:
		return fmt.Errorf("%w: %s", errUnknownField, key)
	}
	return nil
}

// HandleDelete removes a product. Only admins may delete.
func (h *InventoryHandler) HandleDelete(session *UserSession, ref string) {
	if !session.user.IsAdmin() {
		session.reply(MsgAdminOnly)
		return
	}
	if ref == "" {
		session.reply(MsgDeleteUsage)
		return
	}

	p, ok := session.inventory.Find(ref)
	if !ok {
		session.reply(MsgProductNotFound, codeSpan(ref))
		return
	}
	if err := session.inventory.Delete(p.ID); err != nil {
		h.replyInventoryError(session, err, ref)
		return
	}
	log.Info().Int64("userId", session.userId).Str("productId", p.ID).Msg("product deleted")
	session.reply(MsgProductDeleted, escapeMarkdown(p.Name))
}

// HandleStock handles "/stock <id|sku> in|out <quantity>".
func (h *InventoryHandler) HandleStock(session *UserSession, args []string) {
	if len(args) != 3 {
		session.reply(MsgStockUsage)
		return
	}

	var typ inventory.TransactionType
	switch strings.ToUpper(args[1]) {
	case string(inventory.TransactionIn):
		typ = inventory.TransactionIn
	case string(inventory.TransactionOut):
		typ = inventory.TransactionOut
	default:
		session.reply(MsgStockUsage)
		return
	}

	qty, err := strconv.Atoi(args[2])
	if err != nil || qty <= 0 {
		session.reply(MsgStockUsage)
		return
	}

	p, ok := session.inventory.Find(args[0])
	if !ok {
		session.reply(MsgProductNotFound, codeSpan(args[0]))
		return
	}

	_, err = session.inventory.RecordMovement(p.ID, typ, qty, session.userName(), h.now())
	switch {
	case errors.Is(err, inventory.ErrInsufficientStock):
		session.reply(MsgInsufficientStock, escapeMarkdown(p.Name), p.Quantity)
		return
	case errors.Is(err, inventory.ErrStockOverflow):
		session.reply(MsgStockOverflow, escapeMarkdown(p.Name), p.Quantity)
		return
	case err != nil:
		h.replyInventoryError(session, err, args[0])
		return
	}

	updated, _ := session.inventory.Find(p.ID)
	session.reply(MsgStockRecorded, typ, qty, escapeMarkdown(p.Name), updated.Quantity)
}

// HandleExport sends the inventory as an xlsx document.
func (h *InventoryHandler) HandleExport(session *UserSession) {
	var buf bytes.Buffer
	if err := session.inventory.ExportWorkbook(&buf); err != nil {
		session.replyWithError(err)
		return
	}

	doc := tgbotapi.NewDocument(session.userId, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("inventory-%s.xlsx", h.now().Format(exportFileLayout)),
		Bytes: buf.Bytes(),
	})
	doc.Caption = MsgExportCaption
	if _, err := session.sender.Send(doc); err != nil {
		log.Error().Err(err).Int64("userId", session.userId).Msg("failed to send export")
		return
	}
	log.Info().Int64("userId", session.userId).Int("bytes", buf.Len()).Msg("sent inventory export")
}

func (h *InventoryHandler) replyInventoryError(session *UserSession, err error, ref string) {
	switch {
	case errors.Is(err, inventory.ErrInvalidProduct),
		errors.Is(err, inventory.ErrDuplicateID):
		session.reply(MsgInvalidProduct, escapeMarkdown(err.Error()))
	case errors.Is(err, inventory.ErrProductNotFound):
		session.reply(MsgProductNotFound, codeSpan(ref))
	default:
		session.replyWithError(err)
	}
}
