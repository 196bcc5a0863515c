package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/linksgen/linksbot/config"
	"github.com/linksgen/linksbot/internal/service"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.Config
	userService *service.UserService
	linkService *service.LinkService
}

func New(cfg *config.Config, userSvc *service.UserService, linkSvc *service.LinkService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)

	bot := &Bot{
		api:         api,
		cfg:         cfg,
		userService: userSvc,
		linkService: linkSvc,
	}

	// Set bot commands (menu button)
	bot.setCommands()

	return bot, nil
}

func (b *Bot) setCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Приветственное сообщение"},
		{Command: "help", Description: "Список команд"},
		{Command: "myid", Description: "Ваш user ID"},
		{Command: "create_table", Description: "Создать таблицу по макету"},
		{Command: "create_links", Description: "Создать короткие ссылки"},
		{Command: "analytics", Description: "Аналитика переходов"},
	}

	cfg := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cfg); err != nil {
		log.Printf("Failed to set commands: %v", err)
	}
}

func (b *Bot) Start(ctx context.Context) error {
	// Сбрасываем накопленные апдейты, как и вебхук, если он был
	wh := tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Println("Polling for updates")

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			go b.handleUpdate(update)
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "MARKDOWN"
	_, err := b.api.Send(msg)
	return err
}
