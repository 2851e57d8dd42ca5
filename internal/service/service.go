package service

import (
	"go.uber.org/zap"

	"chrono-union/backend/config"
	"chrono-union/backend/internal/notify"
	"chrono-union/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Timezone  TimezoneService
	Event     EventService
	Instance  InstanceService
	Integrity IntegrityService
	Notify    NotifyService
	Job       JobService
	Export    ExportService
	ICS       ICSService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	inApp := notify.NewInAppSender(repo.Notification, logger)
	email := notify.NewSMTPSender(&cfg.Mail, logger)

	timezone := NewTimezoneService(logger)
	instance := NewInstanceService(repo, logger)
	integrity := NewIntegrityService(repo, &cfg.Jobs, logger)
	notifier := NewNotifyService(inApp, email, logger)
	job := NewJobService(repo, instance, integrity, notifier, &cfg.Jobs, logger)

	return &Service{
		Timezone:  timezone,
		Event:     NewEventService(repo, logger),
		Instance:  instance,
		Integrity: integrity,
		Notify:    notifier,
		Job:       job,
		Export:    NewExportService(repo, logger),
		ICS:       NewICSService(repo, logger),
	}
}
