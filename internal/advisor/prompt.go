package advisor

import (
	"fmt"
	"strings"
	"time"

	"goldtracer/internal/service"
)

const analystBriefing = `You are a precious-metals market analyst. Your role is to interpret the indicator snapshot you are given, NOT to invent numbers.

Rules:
- Always reference the specific indicators and levels in the snapshot.
- Never fabricate data. If a value is missing from the snapshot, say so.
- Flag stale values explicitly when interpreting them.
- Express uncertainty when indicators conflict.
- Keep responses concise: a short diagnosis, then the one or two risks that matter most.
- Do not add financial advice disclaimers. The reader understands this is informational.`

func BuildSystemPrompt(marketContext string) string {
	var sb strings.Builder
	sb.WriteString(analystBriefing)
	sb.WriteString("\n\n--- CURRENT SNAPSHOT (as of ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	sb.WriteString(") ---\n")
	sb.WriteString(marketContext)
	return sb.String()
}

func FormatMarketContext(summary *service.DashboardSummary) string {
	if summary == nil {
		return "No market data currently available."
	}

	var sb strings.Builder

	if len(summary.Quotes) > 0 {
		sb.WriteString("\nQuotes:\n")
		for _, q := range summary.Quotes {
			sb.WriteString(fmt.Sprintf("  %s: %.2f (%+.2f%%)\n", q.Symbol, q.LastPrice, q.ChangePercent))
		}
	}

	if len(summary.Indicators) > 0 {
		sb.WriteString("\nIndicators:\n")
		for _, ind := range summary.Indicators {
			stale := ""
			if ind.IsStale {
				stale = " [stale]"
			}
			sb.WriteString(fmt.Sprintf("  %s: %.2f%s%s\n", ind.Name, ind.Value, ind.Unit, stale))
		}
	}

	if len(summary.Stats) > 0 {
		sb.WriteString("\nPositioning:\n")
		for _, stat := range summary.Stats {
			sb.WriteString(fmt.Sprintf("  %s/%s: %.0f (chg %+.2f, %s)\n",
				stat.Category, stat.Label, stat.Value, stat.ChangeValue, stat.Source))
		}
	}

	if summary.Strategy != nil && summary.Strategy.TradeAdvice != nil {
		advice := summary.Strategy.TradeAdvice
		sb.WriteString(fmt.Sprintf("\nToday's advice: entry %.2f tp %.2f sl %.2f confidence %.2f\n",
			advice.Entry, advice.TakeProfit, advice.StopLoss, advice.Confidence))
	}

	if summary.Assessment.Bias != "" {
		sb.WriteString(fmt.Sprintf("\nRule-based bias: %s\n", summary.Assessment.Bias))
		for _, alert := range summary.Assessment.Alerts {
			sb.WriteString("  alert: " + alert + "\n")
		}
	}

	if sb.Len() == 0 {
		return "No market data currently available."
	}
	return sb.String()
}
