package telegram

import (
	"fmt"
	"strings"

	"go-stock-briefing/internal/entity"
)

// FormatRunSummaryForTelegram formats one briefing run into a Markdown
// message for Telegram, staying under the message length cap. The full
// report lives on disk; this is the push notification.
func FormatRunSummaryForTelegram(report *entity.RunReport) string {
	const maxLen = 4090
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📋 *Daily Stock Briefing %s*\n\n", report.Date.Format("2006-01-02")))

	statusIcon := "✅"
	if report.Status == entity.StatusManualReview {
		statusIcon = "⚠️"
	}
	b.WriteString(fmt.Sprintf("%s *Status:* %s\n", statusIcon, strings.ToUpper(strings.ReplaceAll(string(report.Status), "_", " "))))

	if !report.TradingDay {
		b.WriteString("🛑 Markets closed, no data collected.\n")
		return b.String()
	}

	layers := make([]string, 0, len(report.Layers))
	for _, layer := range report.Layers {
		layers = append(layers, string(layer))
	}
	b.WriteString(fmt.Sprintf("🔎 *Depth:* %s | *Layers:* %s\n\n", report.Depth, strings.Join(layers, ", ")))

	if len(report.GuardrailTriggers) > 0 {
		b.WriteString("*Guardrail Triggers*\n")
		for _, trigger := range report.GuardrailTriggers {
			b.WriteString(fmt.Sprintf("• %s\n", trigger))
		}
		b.WriteString("\n")
	}

	if len(report.RedFlags) > 0 {
		b.WriteString("*Red Flags*\n")
		for _, flag := range report.RedFlags {
			b.WriteString(fmt.Sprintf("🚩 %s (%s): %s\n", flag.Category.Label(), flag.Ticker, flag.Evidence))
		}
		b.WriteString("\n")
	}

	b.WriteString("*Action Items*\n")
	for _, item := range report.ActionItems {
		b.WriteString(fmt.Sprintf("👉 %s\n", item))
	}

	message := b.String()
	if len(message) > maxLen {
		message = message[:maxLen-3] + "..."
	}
	return message
}
