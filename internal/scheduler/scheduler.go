package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"uniformledger/internal/config"
	"uniformledger/internal/service/export"
	"uniformledger/pkg/clients/telegram"
)

// Scheduler runs the weekly backup. The cron entry fires once a day shortly
// after midnight; the job itself checks whether today is the configured
// backup weekday, mirroring a coarse daily-check timer. There is no retry
// and no cancellation path beyond stopping the process.
type Scheduler struct {
	cron      *cron.Cron
	exportSvc *export.Service
	messenger telegram.Client
	cfg       config.BackupConfig
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a scheduler instance. messenger may be nil when no Telegram
// bot is configured; archives are then only written to disk.
func New(cfg config.BackupConfig, exportSvc *export.Service, messenger telegram.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		exportSvc: exportSvc,
		messenger: messenger,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the daily check and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting backup scheduler",
		zap.String("schedule", s.cfg.CronSchedule),
		zap.String("weekday", s.cfg.Weekday.String()))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runBackupCheck); err != nil {
		s.logger.Error("failed to schedule backup check", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping backup scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runBackupCheck() {
	now := s.now()
	if now.Weekday() != s.cfg.Weekday {
		s.logger.Debug("not backup day, skipping", zap.String("today", now.Weekday().String()))
		return
	}

	s.logger.Info("running weekly backup")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	archive, filename, data, err := s.exportSvc.CreateBackup(ctx)
	if err != nil {
		s.logger.Error("weekly backup failed", zap.Error(err))
		return
	}

	if s.messenger == nil {
		return
	}

	req := telegram.SendDocumentRequest{
		Filename: filename,
		Data:     data,
		Caption: fmt.Sprintf("Weekly backup %s: %d production records, %d sale records",
			archive.Timestamp, len(archive.Production), len(archive.Sales)),
	}

	if err := s.messenger.SendDocument(ctx, req); err != nil {
		s.logger.Error("failed to deliver backup to telegram", zap.Error(err))
	} else {
		s.logger.Info("backup delivered to telegram", zap.String("filename", filename))
	}
}
