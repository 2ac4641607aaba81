package services

import (
	"context"
	"log"
	"time"

	"pharmasave/internal/adapters/persistence/repositories"
	"pharmasave/internal/pkg/pricing"

	"github.com/robfig/cron/v3"
)

// nightlySchedule runs shortly after midnight, once the calendar date
// has rolled over and every stored expiry_days is off by one.
const nightlySchedule = "30 0 * * *"

// CronService owns the nightly maintenance jobs: repricing, which
// refreshes the derived discount fields as stock ages, and refresh
// token cleanup.
type CronService struct {
	medicineRepo repositories.MedicineRepository
	tokenRepo    repositories.RefreshTokenRepository
	cron         *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(
	medicineRepo repositories.MedicineRepository,
	tokenRepo repositories.RefreshTokenRepository,
) *CronService {
	return &CronService{
		medicineRepo: medicineRepo,
		tokenRepo:    tokenRepo,
		cron:         cron.New(),
	}
}

// Start schedules the nightly jobs
func (s *CronService) Start() {
	s.cron.AddFunc(nightlySchedule, s.RepriceAll)
	s.cron.AddFunc(nightlySchedule, s.PurgeExpiredTokens)
	s.cron.Start()
	log.Println("🕐 Nightly jobs scheduled (daily at 00:30)")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Nightly jobs stopped")
}

// RepriceAll re-derives pricing for every medicine from today's date.
// Only the derived columns are written; quantity stays untouched so
// concurrent reservations are never clobbered.
func (s *CronService) RepriceAll() {
	ctx := context.Background()
	now := time.Now()

	medicines, err := s.medicineRepo.FindAll(ctx)
	if err != nil {
		log.Printf("❌ Reprice query error: %v", err)
		return
	}

	updated := 0
	for _, m := range medicines {
		derived := pricing.Derive(m.ExpiryDate, m.OriginalPrice, now)
		if derived.ExpiryDays == m.ExpiryDays && derived.DiscountPercent == m.DiscountPercent {
			continue
		}
		if err := s.medicineRepo.UpdateDerived(ctx, m.ID, derived); err != nil {
			log.Printf("❌ Reprice medicine %d error: %v", m.ID, err)
			continue
		}
		updated++
	}

	if updated > 0 {
		log.Printf("✅ Repriced %d medicines", updated)
	}
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *CronService) PurgeExpiredTokens() {
	if err := s.tokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("❌ Token cleanup error: %v", err)
	}
}
