package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/urbanoshop/urbano-backend/internal/app/service"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
)

// BestSellerScheduler recomputes best-seller flags nightly from recent sales.
type BestSellerScheduler struct {
	cron           *cron.Cron
	productService service.ProductService
}

func NewBestSellerScheduler(productService service.ProductService) *BestSellerScheduler {
	return &BestSellerScheduler{
		cron:           cron.New(),
		productService: productService,
	}
}

func (s *BestSellerScheduler) Start() error {
	// Daily at 03:00, after the day's orders have settled.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled best-seller refresh")

		if err := s.productService.RefreshBestSellers(); err != nil {
			logger.Error("Scheduled best-seller refresh failed", err)
			return
		}

		logger.Info("Scheduled best-seller refresh completed")
	})
	if err != nil {
		logger.Error("Failed to register best-seller cron job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Best-seller scheduler started (daily at 03:00)")
	return nil
}

func (s *BestSellerScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Best-seller scheduler stopped")
}
