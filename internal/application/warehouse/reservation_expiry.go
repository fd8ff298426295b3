package warehouse

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/furniflow/backend/internal/domain/warehouse"
)

// ReservationExpiryWorker periodically cancels pending reservations that
// outlived their expiry, returning the held stock to the available pool
type ReservationExpiryWorker struct {
	reservations *ReservationService
	repo         warehouse.ReservationRepository
	interval     time.Duration
	logger       *zap.Logger
}

// NewReservationExpiryWorker creates a new ReservationExpiryWorker
func NewReservationExpiryWorker(
	reservations *ReservationService,
	repo warehouse.ReservationRepository,
	interval time.Duration,
	logger *zap.Logger,
) *ReservationExpiryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReservationExpiryWorker{
		reservations: reservations,
		repo:         repo,
		interval:     interval,
		logger:       logger,
	}
}

// ExpiryStats describes one sweep over expired reservations
type ExpiryStats struct {
	TotalExpired int       `json:"total_expired"`
	Cancelled    int       `json:"cancelled"`
	Failed       int       `json:"failed"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// Run sweeps on a ticker until the context is cancelled
func (w *ReservationExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Reservation expiry worker started",
		zap.Duration("interval", w.interval),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reservation expiry worker stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				w.logger.Error("Reservation expiry sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep cancels every expired pending reservation once
func (w *ReservationExpiryWorker) Sweep(ctx context.Context) (*ExpiryStats, error) {
	stats := &ExpiryStats{ProcessedAt: time.Now()}

	expired, err := w.repo.FindExpired(ctx)
	if err != nil {
		w.logger.Error("Failed to find expired reservations", zap.Error(err))
		return nil, err
	}

	stats.TotalExpired = len(expired)
	if stats.TotalExpired == 0 {
		return stats, nil
	}

	for _, r := range expired {
		if _, err := w.reservations.Cancel(ctx, r.ID); err != nil {
			w.logger.Error("Failed to cancel expired reservation",
				zap.String("reservation_id", r.ID.String()),
				zap.String("item_id", r.ItemID.String()),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		stats.Cancelled++
	}

	w.logger.Info("Completed reservation expiry sweep",
		zap.Int("total", stats.TotalExpired),
		zap.Int("cancelled", stats.Cancelled),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}
