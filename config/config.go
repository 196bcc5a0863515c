package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all settings the bot needs. Everything comes from
// environment variables.
type Config struct {
	BotToken       string `env:"BOT_TOKEN,required"`
	VKToken        string `env:"VK_TOKEN,required"`
	GoogleTableID  string `env:"GOOGLE_TABLE_ID,required"`
	GoogleAPIToken string `env:"GOOGLE_API_TOKEN,required"`

	// Telegram ID, получающий роль admin при первом /start
	AdminTelegramID int64 `env:"TG_ADMIN_ID,required"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/users.db"`

	// Cron-расписание автоматического пересчёта аналитики.
	// Пустая строка — пересчёт только по команде /analytics.
	AnalyticsCron string `env:"ANALYTICS_CRON" envDefault:""`

	TimezoneName string `env:"TIMEZONE" envDefault:"Europe/Moscow"`

	Timezone *time.Location `env:"-"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	tz, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Timezone = tz

	return cfg, nil
}
