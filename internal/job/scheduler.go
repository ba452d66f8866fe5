package job

import (
	"context"
	"fmt"
	"time"

	"belezure-api/config"
	"belezure-api/internal/domain/entity"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type CacheResyncer interface {
	Resync(ctx context.Context) error
}

type ReminderSender interface {
	SendDayReminders(ctx context.Context, date string) (int, error)
}

// Scheduler runs the periodic background work: slot cache resync and
// next-day booking reminders.
type Scheduler struct {
	cron      *cron.Cron
	log       *logrus.Logger
	loc       *time.Location
	cache     CacheResyncer
	reminders ReminderSender
	timeout   time.Duration
	now       func() time.Time
}

func NewScheduler(cfg config.JobsConfig, loc *time.Location, log *logrus.Logger, cache CacheResyncer, reminders ReminderSender) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		log:       log,
		loc:       loc,
		cache:     cache,
		reminders: reminders,
		timeout:   5 * time.Minute,
		now:       time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.CacheResyncSpec, s.runCacheResync); err != nil {
		return nil, fmt.Errorf("invalid cache resync schedule %q: %w", cfg.CacheResyncSpec, err)
	}
	if _, err := s.cron.AddFunc(cfg.ReminderSpec, s.runReminders); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", cfg.ReminderSpec, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Job scheduler started with %d jobs", len(s.cron.Entries()))
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.log.Info("Job scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Job scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) runCacheResync() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := s.now()
	if err := s.cache.Resync(ctx); err != nil {
		s.log.Warnf("Failed to resync slot cache: %+v", err)
		return
	}
	s.log.WithField("duration", s.now().Sub(start).String()).Info("Slot cache resynced")
}

// reminderDate is tomorrow in the business timezone
func (s *Scheduler) reminderDate() string {
	return s.now().In(s.loc).AddDate(0, 0, 1).Format(entity.DateLayout)
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	date := s.reminderDate()
	sent, err := s.reminders.SendDayReminders(ctx, date)
	if err != nil {
		s.log.Warnf("Failed to send reminders for %s: %+v", date, err)
		return
	}
	s.log.WithFields(logrus.Fields{"date": date, "sent": sent}).Info("Booking reminders sent")
}
