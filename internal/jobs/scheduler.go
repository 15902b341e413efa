package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Runner is the unit of scheduled work.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler wraps gocron with the small surface the server needs:
// register named jobs, start them, shut them down on exit.
type Scheduler struct {
	scheduler gocron.Scheduler
}

func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// RegisterDaily schedules runner to execute once per day at the given UTC time.
func (s *Scheduler) RegisterDaily(name string, hour, minute int, runner Runner) error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
		gocron.NewTask(func() {
			runJob(name, runner)
		}),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	return nil
}

// RegisterEvery schedules runner to execute at a fixed interval.
func (s *Scheduler) RegisterEvery(name string, interval time.Duration, runner Runner) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			runJob(name, runner)
		}),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	return nil
}

func runJob(name string, runner Runner) {
	start := time.Now()
	if err := runner.Run(context.Background()); err != nil {
		slog.Error("scheduled job failed", "job", name, "error", err)
		return
	}
	slog.Info("scheduled job completed", "job", name, "duration", time.Since(start))
}

// Start begins executing registered jobs in the background.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	slog.Info("job scheduler started", "jobs", len(s.scheduler.Jobs()))
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
