// Package reminder runs the periodic due-review check. It only
// observes the store; nothing here mutates scheduling state.
package reminder

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/reviewbox/internal/srs"
	"github.com/example/reviewbox/pkg/models"
)

// Default notification window
const (
	DefaultStartHour = 8
	DefaultEndHour   = 22
)

// Config bounds the hours in which reminders are logged
type Config struct {
	StartHour int `mapstructure:"start_hour" validate:"min=0,max=23"`
	EndHour   int `mapstructure:"end_hour" validate:"min=0,max=23"`
}

// Job checks for due items once an hour inside the notification window
type Job struct {
	scheduler *gocron.Scheduler
	sched     *srs.Scheduler
	cfg       Config
	clock     srs.Clock
	log       *zap.Logger
}

// New creates the reminder job. Zero config hours fall back to the
// default window.
func New(sched *srs.Scheduler, cfg Config, clock srs.Clock, log *zap.Logger) *Job {
	if cfg.StartHour == 0 && cfg.EndHour == 0 {
		cfg.StartHour = DefaultStartHour
		cfg.EndHour = DefaultEndHour
	}
	if clock == nil {
		clock = srs.SystemClock()
	}
	return &Job{
		scheduler: gocron.NewScheduler(time.UTC),
		sched:     sched,
		cfg:       cfg,
		clock:     clock,
		log:       log,
	}
}

// Start begins the hourly check in the background
func (j *Job) Start() {
	j.scheduler.Every(1).Hour().Do(j.checkDueItems)
	j.scheduler.StartAsync()
}

// Stop terminates the scheduled check
func (j *Job) Stop() {
	j.scheduler.Stop()
}

// checkDueItems runs the due check when inside the notification window
func (j *Job) checkDueItems() {
	hour := j.clock.Now().Hour()
	if hour < j.cfg.StartHour || hour > j.cfg.EndHour {
		j.log.Debug("outside notification hours, skipping reminder",
			zap.Int("hour", hour),
			zap.Int("start", j.cfg.StartHour),
			zap.Int("end", j.cfg.EndHour))
		return
	}
	if err := j.RunManualCheck(); err != nil {
		j.log.Error("failed to check due items", zap.Error(err))
	}
}

// RunManualCheck counts due items and logs a summary immediately,
// ignoring the notification window
func (j *Job) RunManualCheck() error {
	due, err := j.sched.GetDueItems("", "")
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	perLevel := make(map[models.Level]int)
	for _, item := range due {
		perLevel[item.Level]++
	}
	j.log.Info("items due for review",
		zap.Int("total", len(due)),
		zap.Any("by_level", perLevel))
	return nil
}
