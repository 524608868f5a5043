package job

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Task is one unit of periodic work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	sched   gocron.Scheduler
	timeout time.Duration
	log     *zap.Logger
}

func NewScheduler(log *zap.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Scheduler{
		sched:   sched,
		timeout: time.Minute,
		log:     log.With(zap.String("component", "scheduler")),
	}, nil
}

// Every registers task to run now and then once per interval. A run that is
// still going when the next one is due is skipped.
func (s *Scheduler) Every(interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", task.Name())
	}

	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if err := task.Run(ctx); err != nil {
				s.log.Error("Job failed", zap.String("job", task.Name()), zap.Error(err))
			}
		}),
		gocron.WithName(task.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", task.Name(), err)
	}

	s.log.Info("Job scheduled", zap.String("job", task.Name()), zap.Duration("interval", interval))
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown waits for running jobs to finish.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
