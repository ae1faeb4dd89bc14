package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/engtrainer/internal/logger"
)

// Значения по умолчанию для фоновых задач
const (
	DefaultReminderTime    = "09:00"
	DefaultAutosaveMinutes = 5
	jobTimeout             = 30 * time.Second
)

// Trainer is the part of the trainer the background jobs use
type Trainer interface {
	Save(ctx context.Context) error
	Pending() (due, fresh int)
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(due, fresh int) error
}

// Config controls the background jobs
type Config struct {
	ReminderTime    string // HH:MM, empty disables the reminder
	AutosaveMinutes int    // zero disables autosave
	Location        *time.Location
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	trainer   Trainer
	notifier  Notifier
	config    Config
	log       *logger.Logger
}

// New creates a new scheduler instance. notifier may be nil, in which case
// no reminder is scheduled.
func New(trainer Trainer, notifier Notifier, config Config, log *logger.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.Local
	}
	s := gocron.NewScheduler(config.Location)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		trainer:   trainer,
		notifier:  notifier,
		config:    config,
		log:       log,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	if s.config.AutosaveMinutes > 0 {
		if _, err := s.scheduler.Every(s.config.AutosaveMinutes).Minutes().Do(s.Autosave); err != nil {
			return fmt.Errorf("failed to schedule autosave: %w", err)
		}
	}
	if s.notifier != nil && s.config.ReminderTime != "" {
		if _, err := s.scheduler.Every(1).Day().At(s.config.ReminderTime).Do(s.SendReminder); err != nil {
			return fmt.Errorf("failed to schedule reminder at %q: %w", s.config.ReminderTime, err)
		}
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.log.Info("scheduler started", "jobs", s.scheduler.Len(),
		"reminder", s.config.ReminderTime, "autosave_minutes", s.config.AutosaveMinutes)
	return nil
}

// Stop terminates all scheduled tasks and saves one last time
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.Autosave()
}

// Autosave writes unsaved progress
func (s *Scheduler) Autosave() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.trainer.Save(ctx); err != nil {
		s.log.Error("autosave failed", "error", err)
	}
}

// SendReminder notifies the learner when there is something to study
func (s *Scheduler) SendReminder() {
	due, fresh := s.trainer.Pending()
	if due == 0 && fresh == 0 {
		s.log.Debug("nothing to review, skipping reminder")
		return
	}
	if err := s.notifier.SendReminder(due, fresh); err != nil {
		s.log.Error("failed to send reminder", "error", err, "due", due, "new", fresh)
	}
}
