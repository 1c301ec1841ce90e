package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/okian/diamond/pkg/logger"
)

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(context.Background(), "cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(context.Background(), "cron: "+msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []any) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return fields
}

// Start enables the scheduled refresh when a schedule is configured.
// Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.schedule != "" {
		cl := cronLogger{l: s.logger}
		c := cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		)
		if _, err := c.AddFunc(s.schedule, s.scheduledRefresh); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, s.schedule, err)
		}
		c.Start()
		s.cron = c
	}

	s.started = true
	s.logger.Info(ctx, "points service started", logger.String("refreshSchedule", s.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
// The store is owned by the caller and is left open.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	c := s.cron
	s.cron = nil
	s.started = false
	s.mu.Unlock()

	// Wait outside the lock: a running refresh takes it to record its result.
	if c != nil {
		<-c.Stop().Done()
	}
	s.logger.Info(context.Background(), "points service stopped")
}

func (s *Service) scheduledRefresh() {
	ctx := context.Background()
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Error(ctx, "scheduled refresh failed", logger.Error(err))
	}
}
