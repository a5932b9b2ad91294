package services

import (
	"context"
	"log"

	"arthi-backend/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start schedules and starts all jobs
func (s *CronService) Start() {
	// Purge expired refresh tokens nightly at 03:00
	_, err := s.cron.AddFunc("0 3 * * *", s.purgeExpiredTokens)
	if err != nil {
		log.Printf("⚠️ Failed to schedule token purge job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Cron service started (token purge at 03:00 daily)")
}

// Stop stops the cron scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) purgeExpiredTokens() {
	if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("⚠️ Expired token purge failed: %v", err)
		return
	}
	log.Println("🧹 Expired refresh tokens purged")
}
