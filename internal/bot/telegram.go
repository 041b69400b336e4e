package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"goldtracer/internal/service"

	tele "gopkg.in/telebot.v3"
)

// StartTelegramBot launches the long-polling bot. A missing token disables
// the bot instead of failing startup.
func StartTelegramBot(token string, dashboard *service.DashboardService) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/quote", func(c tele.Context) error {
		summary, err := dashboard.GetSummary(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching quotes: %v", err))
		}
		args := c.Args()
		var sb strings.Builder
		for _, q := range summary.Quotes {
			if len(args) > 0 && !strings.EqualFold(args[0], q.Symbol) {
				continue
			}
			sb.WriteString(fmt.Sprintf("%s: %.2f (%+.2f%%)\n", q.Symbol, q.LastPrice, q.ChangePercent))
		}
		if sb.Len() == 0 {
			return c.Send("No quotes available yet, try again after the next sync.")
		}
		return c.Send(sb.String())
	})

	b.Handle("/advice", func(c tele.Context) error {
		summary, err := dashboard.GetSummary(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching advice: %v", err))
		}
		if summary.Strategy == nil || summary.Strategy.TradeAdvice == nil {
			return c.Send("No advice for today yet.")
		}
		advice := summary.Strategy.TradeAdvice
		msg := fmt.Sprintf(
			"Gold trade setup (%s)\nEntry: %.2f\nTake profit: %.2f\nStop loss: %.2f\nConfidence: %.0f%%\n\n%s",
			summary.Strategy.LogDate,
			advice.Entry, advice.TakeProfit, advice.StopLoss, advice.Confidence*100,
			strings.Join(advice.Rationale, "\n"),
		)
		return c.Send(msg)
	})

	b.Handle("/fedwatch", func(c tele.Context) error {
		summary, err := dashboard.GetSummary(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching outlook: %v", err))
		}
		if summary.Strategy == nil || summary.Strategy.FedPolicyOutlook == nil {
			return c.Send("No policy outlook available yet.")
		}
		outlook := summary.Strategy.FedPolicyOutlook
		msg := fmt.Sprintf(
			"Fed policy outlook\nCurrent rate: %.3f%%\nMarket-implied: %.3f%%\n25bp cut: %.1f%%\nHold: %.1f%%",
			outlook.CurrentRate, outlook.ImpliedRate, outlook.ProbCut25, outlook.ProbPause,
		)
		return c.Send(msg)
	})

	b.Handle("/bias", func(c tele.Context) error {
		summary, err := dashboard.GetSummary(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching assessment: %v", err))
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Bias: %s\n", summary.Assessment.Bias))
		for _, reason := range summary.Assessment.Reasons {
			sb.WriteString("- " + reason + "\n")
		}
		for _, alert := range summary.Assessment.Alerts {
			sb.WriteString("! " + alert + "\n")
		}
		return c.Send(sb.String())
	})

	log.Println("Telegram bot started")
	go b.Start()
}
