package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rollcall-app/rollcall/internal/rollcall/qrstore"
	"github.com/rollcall-app/rollcall/internal/rollcall/store"
)

// HousekeepingService periodically removes provisioning QR images that no
// longer serve a purpose: the account was deleted, or it finished OTP
// activation and will never need the enrollment image again.
type HousekeepingService struct {
	Store    store.Store
	QRCodes  *qrstore.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. Zero or negative defaults to 1 hour.
func NewHousekeepingService(st store.Store, qr *qrstore.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		QRCodes:  qr,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and blocks until any in-progress sweep ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep once on startup to clear leftovers from before a restart.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep removes stale QR images. Failures on individual files are logged
// and skipped so one bad entry cannot wedge the sweep.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	names, err := s.QRCodes.List()
	if err != nil {
		s.Logger.Error("housekeeping failed to list QR images", "error", err)
		return
	}

	var removed int
	for _, name := range names {
		u, err := s.Store.Users().GetUserByUsername(ctx, name)
		stale := errors.Is(err, store.ErrNotFound) || (err == nil && u.Activated())
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.Logger.Error("housekeeping lookup failed", "username", name, "error", err)
			continue
		}
		if !stale {
			continue
		}

		if err := s.QRCodes.Remove(name); err != nil {
			s.Logger.Error("housekeeping failed to remove QR image", "username", name, "error", err)
			continue
		}
		removed++
	}

	s.Logger.Info("housekeeping sweep completed", "removed", removed)
}
