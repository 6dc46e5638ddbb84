package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the measurement reminder on a fixed interval.
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	remindFunc func(ctx context.Context) error
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetRemindFunction sets the callback invoked on every tick.
func (s *Scheduler) SetRemindFunction(f func(ctx context.Context) error) {
	s.remindFunc = f
}

// Start schedules reminders every intervalHours hours.
func (s *Scheduler) Start(intervalHours int) error {
	if s.remindFunc == nil {
		log.Println("⚠️ Remind function not set, scheduler will not send reminders")
		return nil
	}
	if intervalHours <= 0 {
		return fmt.Errorf("reminder interval must be positive, got %d", intervalHours)
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %dh", intervalHours), func() {
		log.Printf("🔔 Triggered measurement reminder (every %dh)", intervalHours)
		if err := s.remindFunc(s.ctx); err != nil {
			log.Printf("❌ Measurement reminder failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started - reminders every %dh", intervalHours)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

// IsRunning reports whether any reminder job is scheduled.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
