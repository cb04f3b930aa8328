package services

import (
	"context"
	"time"

	"github.com/hushdrop/hushdrop/internal/logging"
)

// Sweeper periodically purges terminal secrets. The interval comes from
// configuration; the core never hardcodes a schedule.
type Sweeper struct {
	svc      *SecretService
	interval time.Duration
	log      logging.Logger
}

func NewSweeper(svc *SecretService, interval time.Duration, log logging.Logger) *Sweeper {
	return &Sweeper{svc: svc, interval: interval, log: log.With("component", "sweeper")}
}

// Run blocks, invoking the expiry sweep once per interval until ctx is
// cancelled. Sweep failures are logged and the loop keeps going; a broken
// sweep must not take the serving path down with it.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.svc.RunExpirySweep(ctx); err != nil {
				s.log.Error(ctx, "expiry sweep failed", "error", err.Error())
			}
		}
	}
}
