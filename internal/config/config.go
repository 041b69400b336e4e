package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL      string
	RedisURL         string
	APIKey           string
	TelegramBotToken string

	FREDAPIKey         string
	BreakevenSeries    string
	NominalYieldSeries string

	SyncPollSecs int

	GoldSymbol         string
	NominalYieldSymbol string
	DollarIndexSymbol  string
	FedFundsSymbol     string
	RiskIndexSymbol    string
	FXSymbol           string
	GoldETFSymbol      string
	DomesticGoldSymbol string

	CurrentFedRate       float64
	RealYieldBullBelow   float64
	RiskIndexThreshold   float64
	FallbackDomesticGold float64

	HistoryDays      int
	HistoryDaysFull  int
	HistoryBatchSize int

	NewsFeeds        []string
	NewsFeedItemMax  int

	OpenAIAPIKey string
	OpenAIModel  string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           os.Getenv("API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		FREDAPIKey:       os.Getenv("FRED_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.FREDAPIKey == "" {
		log.Println("Warning: FRED_API_KEY not set, FRED-backed metrics will be unavailable")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, AI diagnosis will be disabled")
	}

	cfg.BreakevenSeries = envString("FRED_BREAKEVEN_SERIES", "T10YIE")
	cfg.NominalYieldSeries = envString("FRED_NOMINAL_YIELD_SERIES", "DGS10")

	cfg.SyncPollSecs = envInt("SYNC_POLL_SECS", 300)

	cfg.GoldSymbol = envString("GOLD_SYMBOL", "GC=F")
	cfg.NominalYieldSymbol = envString("NOMINAL_YIELD_SYMBOL", "^TNX")
	cfg.DollarIndexSymbol = envString("DOLLAR_INDEX_SYMBOL", "DX-Y.NYB")
	cfg.FedFundsSymbol = envString("FED_FUNDS_SYMBOL", "ZQ=F")
	cfg.RiskIndexSymbol = envString("RISK_INDEX_SYMBOL", "^VIX")
	cfg.FXSymbol = envString("FX_SYMBOL", "CNY=X")
	cfg.GoldETFSymbol = envString("GOLD_ETF_SYMBOL", "GLD")
	cfg.DomesticGoldSymbol = envString("DOMESTIC_GOLD_SYMBOL", "")

	cfg.CurrentFedRate = envFloat("CURRENT_FED_RATE", 5.375)
	cfg.RealYieldBullBelow = envFloat("REAL_YIELD_BULL_BELOW", 2.0)
	cfg.RiskIndexThreshold = envFloat("RISK_INDEX_THRESHOLD", 20.0)
	cfg.FallbackDomesticGold = envFloat("FALLBACK_DOMESTIC_GOLD", 480.0)

	cfg.HistoryDays = envInt("HISTORY_DAYS", 7)
	cfg.HistoryDaysFull = envInt("HISTORY_DAYS_FULL", 365)
	cfg.HistoryBatchSize = envInt("HISTORY_BATCH_SIZE", 200)

	cfg.NewsFeedItemMax = envInt("NEWS_FEED_ITEM_MAX", 40)
	feeds := envString("NEWS_FEEDS", "https://www.kitco.com/rss/category/commentaries.xml")
	for _, feed := range strings.Split(feeds, ",") {
		feed = strings.TrimSpace(feed)
		if feed != "" {
			cfg.NewsFeeds = append(cfg.NewsFeeds, feed)
		}
	}

	cfg.OpenAIModel = envString("OPENAI_MODEL", "gpt-4o-mini")

	return cfg
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
