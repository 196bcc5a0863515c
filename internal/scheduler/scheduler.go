package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/linksgen/linksbot/config"
	"github.com/linksgen/linksbot/internal/service"
	"github.com/linksgen/linksbot/internal/storage"
	"github.com/robfig/cron/v3"
)

type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler re-runs the analytics collection on a cron schedule so the click
// counts in the spreadsheet stay fresh between manual /analytics calls.
type Scheduler struct {
	cron        *cron.Cron
	cfg         *config.Config
	storage     *storage.Storage
	linkService *service.LinkService
	sender      MessageSender
}

func New(cfg *config.Config, store *storage.Storage, linkSvc *service.LinkService) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:        c,
		cfg:         cfg,
		storage:     store,
		linkService: linkSvc,
	}
}

func (s *Scheduler) SetSender(sender MessageSender) {
	s.sender = sender
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.AnalyticsCron == "" {
		log.Println("Scheduler disabled (ANALYTICS_CRON is empty)")
		<-ctx.Done()
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.AnalyticsCron, s.refreshAnalytics); err != nil {
		return fmt.Errorf("add analytics job: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, analytics: %s)", s.cfg.Timezone, s.cfg.AnalyticsCron)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) refreshAnalytics() {
	count, err := s.linkService.CollectAnalytics()
	if err != nil {
		log.Printf("Scheduled analytics refresh failed: %v", err)
		s.notifyAdmins("Плановый пересчёт переходов не удался: " + err.Error())
		return
	}

	log.Printf("Scheduled analytics refresh done (%d links)", count)
	s.notifyAdmins(fmt.Sprintf("Плановый пересчёт переходов завершён: %d ссылок", count))
}

func (s *Scheduler) notifyAdmins(text string) {
	if s.sender == nil {
		return
	}

	admins, err := s.storage.ListAdmins()
	if err != nil {
		log.Printf("Error listing admins: %v", err)
	}
	if len(admins) == 0 {
		// До первого /start админа строк в базе нет
		admins = []int64{s.cfg.AdminTelegramID}
	}

	for _, id := range admins {
		if err := s.sender.SendMessage(id, text); err != nil {
			log.Printf("Error notifying admin %d: %v", id, err)
		}
	}
}
