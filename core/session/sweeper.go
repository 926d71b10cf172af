package session

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"ministore/core/utils"
)

// Sweeper removes expired sessions on a cron schedule.
type Sweeper struct {
	holder *Holder
	spec   string
	logger *utils.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool
}

func NewSweeper(holder *Holder, spec string, logger *utils.Logger) *Sweeper {
	if spec == "" {
		spec = "@every 5m"
	}
	return &Sweeper{holder: holder, spec: spec, logger: logger}
}

func (s *Sweeper) StartWithContext(ctx context.Context) error {
	if s == nil || s.holder == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { _, _ = s.RunOnce(runCtx) }); err != nil {
		cancel()
		return err
	}
	c.Start()
	s.cron = c
	s.cancel = cancel
	s.running = true
	if s.logger != nil {
		s.logger.Printf("session sweeper started spec=%q", s.spec)
	}
	return nil
}

// StopWithContext waits for a running sweep to finish or ctx to expire.
func (s *Sweeper) StopWithContext(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel, s.running = nil, nil, false
	s.mu.Unlock()
	cancel()
	done := c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	n, err := s.holder.Sweep(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Errorf("session sweep: %v", err)
		}
		return n, err
	}
	if n > 0 && s.logger != nil {
		s.logger.Printf("session sweep removed=%d", n)
	}
	return n, nil
}
