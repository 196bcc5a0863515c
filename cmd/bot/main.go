package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/linksgen/linksbot/config"
	"github.com/linksgen/linksbot/internal/bot"
	"github.com/linksgen/linksbot/internal/clients/sheets"
	"github.com/linksgen/linksbot/internal/clients/vkapi"
	"github.com/linksgen/linksbot/internal/scheduler"
	"github.com/linksgen/linksbot/internal/service"
	"github.com/linksgen/linksbot/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация storage
	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	// Клиенты внешних сервисов
	sheetsClient := sheets.NewClient(cfg.GoogleTableID, cfg.GoogleAPIToken)
	vkClient := vkapi.NewClient(cfg.VKToken)

	// Инициализация сервисов
	userSvc := service.NewUserService(store, cfg.AdminTelegramID)
	linkSvc := service.NewLinkService(sheetsClient, vkClient)

	// Инициализация бота
	tgBot, err := bot.New(cfg, userSvc, linkSvc)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	// Инициализация scheduler
	sched := scheduler.New(cfg, store, linkSvc)
	sched.SetSender(tgBot)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	go func() {
		if err := tgBot.Start(ctx); err != nil {
			log.Printf("Bot error: %v", err)
		}
	}()

	log.Println("LinksBot started")

	// Ожидание сигнала завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()
	tgBot.Stop()

	log.Println("LinksBot stopped")
}
