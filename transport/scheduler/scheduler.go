package scheduler

import (
	"context"
	"fmt"
	"time"
	"villa/config"
	reconcile "villa/internal/domains/reconcile/service"
	"villa/shared/timezone"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	JobCalendarRefresh = "calendar-refresh"
	JobDailyNotices    = "daily-notices"

	jobTimeout = 10 * time.Minute
)

type Scheduler struct {
	cron      gocron.Scheduler
	reconcile reconcile.Reconcile
	enabled   bool
}

func New(cfg *config.Config, reconcile reconcile.Reconcile) (*Scheduler, error) {
	cron, err := gocron.NewScheduler(gocron.WithLocation(timezone.GetLocation()))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		cron:      cron,
		reconcile: reconcile,
		enabled:   cfg.Jobs.Enable,
	}

	if !s.enabled {
		log.Info().Msg("Scheduled jobs disabled")

		return s, nil
	}

	interval := time.Duration(max(cfg.Calendar.RefreshIntervalMinutes, 1)) * time.Minute

	_, err = cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.refreshCalendar),
		gocron.WithName(JobCalendarRefresh),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s job: %w", JobCalendarRefresh, err)
	}

	_, err = cron.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(cfg.Jobs.DailyHour, 0, 0))),
		gocron.NewTask(s.sendDailyNotices),
		gocron.WithName(JobDailyNotices),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s job: %w", JobDailyNotices, err)
	}

	log.Info().
		Dur("refresh_interval", interval).
		Uint("daily_hour", cfg.Jobs.DailyHour).
		Msg("Scheduled jobs registered")

	return s, nil
}

// Jobs returns the names of the registered jobs.
func (s *Scheduler) Jobs() []string {
	jobs := s.cron.Jobs()

	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		names = append(names, job.Name())
	}

	return names
}

func (s *Scheduler) Start() {
	if !s.enabled {
		return
	}

	s.cron.Start()

	log.Info().Int("jobs", len(s.cron.Jobs())).Msg("Scheduler started")
}

// Shutdown stops the scheduler and waits for running jobs to return.
func (s *Scheduler) Shutdown() error {
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}

	log.Info().Msg("Scheduler stopped")

	return nil
}

func (s *Scheduler) refreshCalendar() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.reconcile.RefreshCalendar(ctx); err != nil {
		log.Error().Err(err).Str("job", JobCalendarRefresh).Msg("scheduled job failed")
	}
}

func (s *Scheduler) sendDailyNotices() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	summary, err := s.reconcile.SendDailyNotices(ctx)
	if err != nil {
		log.Error().Err(err).Str("job", JobDailyNotices).Int("failures", summary.Failures).Msg("scheduled job finished with errors")

		return
	}

	log.Info().
		Str("job", JobDailyNotices).
		Int("reminders", summary.Reminders).
		Int("pre_arrivals", summary.PreArrivals).
		Msg("scheduled job finished")
}
