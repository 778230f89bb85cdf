package bot

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/dedent"
)

func formatReplyText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

// parseCommand splits a message into the command and its arguments. A bot
// username suffix ("/dashboard@mybot") is dropped from the command.
func parseCommand(s string) (string, []string) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return "", nil
	}
	command, _, _ := strings.Cut(parts[0], "@")
	return command, parts[1:]
}

// commandArgs returns everything after the command, trimmed.
func commandArgs(s string) string {
	s = strings.TrimSpace(s)
	_, rest, _ := strings.Cut(s, " ")
	return strings.TrimSpace(rest)
}

// splitFields splits a semicolon separated argument list and trims each field.
func splitFields(s string) []string {
	fields := strings.Split(s, ";")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// escapeMarkdown escapes special characters for Telegram Markdown V1
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "*", "\\*")
	text = strings.ReplaceAll(text, "_", "\\_")
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "[", "\\[")
	return text
}

// codeSpan makes text safe to place inside a Markdown V1 code span, which
// has no escape for backticks.
func codeSpan(text string) string {
	if text == "" {
		return "-"
	}
	return strings.ReplaceAll(text, "`", "'")
}

// formatMoney renders an amount with thousands separators and at most two
// decimals, e.g. 2714.35 -> "2,714.35".
func formatMoney(amount float64) string {
	return humanize.CommafWithDigits(amount, 2)
}

func pluralize(singular string, plural string, count int) string {
	var s string
	if count == 1 {
		s = singular
	} else {
		s = plural
	}
	return fmt.Sprintf("%d %s", count, s)
}
