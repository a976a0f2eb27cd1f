package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-records/internal/logger"
	"github.com/i474232898/weather-records/internal/observability"
)

// Counter reports how many records are held.
type Counter interface {
	Count() int
}

// Scheduler periodically reports the size of the record store.
type Scheduler struct {
	scheduler *gocron.Scheduler
	counter   Counter
	metrics   *observability.Metrics
	log       logger.Logger
	interval  time.Duration
}

// New creates a new Scheduler. An interval of zero disables reporting.
func New(interval time.Duration, counter Counter, metrics *observability.Metrics, log logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		counter:   counter,
		metrics:   metrics,
		log:       log.WithField("component", "scheduler"),
		interval:  interval,
	}
}

// Start schedules the report job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Infof("store reporting disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.report)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) report() {
	n := s.counter.Count()
	s.metrics.RecordsStored.Set(float64(n))
	s.log.Infof("store holds %d weather records", n)
}
