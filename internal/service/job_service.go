package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"chrono-union/backend/config"
	"chrono-union/backend/internal/dto"
	"chrono-union/backend/internal/model"
	"chrono-union/backend/internal/repository"
)

// ── 定时任务名称 ──

const (
	JobInstanceGeneration    = "instance_generation"
	JobReminderNotification  = "reminder_notification"
	JobDataCleanup           = "data_cleanup"
	JobOldInstanceCleanup    = "old_instance_cleanup"
	JobIntegrityVerification = "integrity_verification"
)

// 单轮提醒派发的批量上限
const reminderBatchSize = 200

var ErrUnknownJob = errors.New("未知的定时任务")

// JobFunc 单个定时任务的执行体
type JobFunc func(ctx context.Context) error

// JobService 定时任务编排接口。每个任务自行捕获错误与 panic，
// 单个任务失败不影响其余任务的调度。
type JobService interface {
	RunInstanceGeneration(ctx context.Context) error
	RunReminderNotification(ctx context.Context) error
	RunDataCleanup(ctx context.Context) error
	RunOldInstanceCleanup(ctx context.Context) error
	RunIntegrityVerification(ctx context.Context) error
	// Registry 返回任务名到执行体的映射，供调度器与手动触发接口使用
	Registry() map[string]JobFunc
	// Execute 按名称执行任务，隔离错误与 panic 并返回执行报告；
	// 仅在任务名未注册时返回 ErrUnknownJob
	Execute(ctx context.Context, name string) (*dto.JobRunResponse, error)
}

type jobService struct {
	repo      *repository.Repository
	instances InstanceService
	integrity IntegrityService
	notifier  NotifyService
	cfg       *config.JobsConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewJobService 创建 JobService 实例
func NewJobService(
	repo *repository.Repository,
	instances InstanceService,
	integrity IntegrityService,
	notifier NotifyService,
	cfg *config.JobsConfig,
	logger *zap.Logger,
) JobService {
	return &jobService{
		repo:      repo,
		instances: instances,
		integrity: integrity,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *jobService) Registry() map[string]JobFunc {
	return map[string]JobFunc{
		JobInstanceGeneration:    s.RunInstanceGeneration,
		JobReminderNotification:  s.RunReminderNotification,
		JobDataCleanup:           s.RunDataCleanup,
		JobOldInstanceCleanup:    s.RunOldInstanceCleanup,
		JobIntegrityVerification: s.RunIntegrityVerification,
	}
}

func (s *jobService) Execute(ctx context.Context, name string) (resp *dto.JobRunResponse, err error) {
	job, ok := s.Registry()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	runID := uuid.NewString()
	started := s.now()
	resp = &dto.JobRunResponse{Job: name, RunID: runID}
	logger := s.logger.With(zap.String("job", name), zap.String("run_id", runID))

	defer func() {
		resp.DurationMS = time.Since(started).Milliseconds()
		if r := recover(); r != nil {
			resp.Success = false
			resp.Error = fmt.Sprintf("任务 panic: %v", r)
			logger.Error("定时任务 panic", zap.Any("panic", r))
		}
	}()

	logger.Info("定时任务开始")
	if jobErr := job(ctx); jobErr != nil {
		resp.Success = false
		resp.Error = jobErr.Error()
		logger.Error("定时任务失败", zap.Error(jobErr))
		return resp, nil
	}
	resp.Success = true
	logger.Info("定时任务完成")
	return resp, nil
}

func (s *jobService) RunInstanceGeneration(ctx context.Context) error {
	result, err := s.instances.RegenerateAllInstances(ctx, s.cfg.GenerationDaysAhead)
	if err != nil {
		return err
	}
	s.logger.Info("实例生成任务汇总",
		zap.Int("events", result.Events),
		zap.Int("generated", result.Generated))
	return nil
}

func (s *jobService) RunReminderNotification(ctx context.Context) error {
	now := s.now().UTC()
	reminders, err := s.repo.Reminder.ListDue(ctx, now, reminderBatchSize)
	if err != nil {
		return err
	}

	var sent, failed int
	for _, reminder := range reminders {
		if err := s.dispatchReminder(ctx, &reminder, now); err != nil {
			failed++
			// 单条失败已标记 FAILED，继续处理剩余提醒
			s.logger.Warn("提醒派发失败",
				zap.Int64("reminder_id", reminder.ID),
				zap.Error(err))
			continue
		}
		sent++
	}

	if sent > 0 || failed > 0 {
		s.logger.Info("提醒派发任务汇总",
			zap.Int("sent", sent),
			zap.Int("failed", failed))
	}
	return nil
}

// dispatchReminder 派发单条提醒并落终态。
// 发送成功标记 SENT，任何失败标记 FAILED 并附失败原因。
func (s *jobService) dispatchReminder(ctx context.Context, reminder *model.Reminder, now time.Time) error {
	event, err := s.repo.Event.GetByID(ctx, reminder.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if markErr := s.repo.Reminder.MarkFailed(ctx, reminder.ID, "事件不存在"); markErr != nil {
				return markErr
			}
			return ErrEventNotFound
		}
		return err
	}

	title := fmt.Sprintf("事件提醒：%s", event.Title)
	message := reminderMessage(event, now)
	metadata := map[string]interface{}{
		"eventId":    event.ID,
		"reminderId": reminder.ID,
	}
	if reminder.RecipientEmail != nil && *reminder.RecipientEmail != "" {
		metadata["email"] = *reminder.RecipientEmail
	}

	if err := s.notifier.Dispatch(ctx, reminder.Method, reminder.UserID, title, message, metadata); err != nil {
		if markErr := s.repo.Reminder.MarkFailed(ctx, reminder.ID, err.Error()); markErr != nil {
			return markErr
		}
		return err
	}
	return s.repo.Reminder.MarkSent(ctx, reminder.ID, now)
}

// reminderMessage 以相对于当前时刻的措辞描述事件开始时间
func reminderMessage(event *model.CalendarEvent, now time.Time) string {
	delta := eventStartInstant(event).Sub(now)
	if delta <= 0 {
		return fmt.Sprintf("事件「%s」已开始", event.Title)
	}

	var when string
	switch {
	case delta < time.Hour:
		minutes := int(delta.Round(time.Minute) / time.Minute)
		if minutes < 1 {
			minutes = 1
		}
		when = fmt.Sprintf("%d 分钟后", minutes)
	case delta < 24*time.Hour:
		hours := int(delta / time.Hour)
		minutes := int(delta % time.Hour / time.Minute)
		if minutes > 0 {
			when = fmt.Sprintf("%d 小时 %d 分钟后", hours, minutes)
		} else {
			when = fmt.Sprintf("%d 小时后", hours)
		}
	default:
		when = fmt.Sprintf("%d 天后", int(delta/(24*time.Hour)))
	}
	return fmt.Sprintf("事件「%s」将于 %s开始", event.Title, when)
}

// eventStartInstant 把事件的开始日期与时钟解析为具体时刻。
// 全天事件取当日零点；时区无法加载时退回 UTC。
func eventStartInstant(event *model.CalendarEvent) time.Time {
	loc, err := time.LoadLocation(event.Timezone)
	if err != nil {
		loc = time.UTC
	}
	h, m, sec := 0, 0, 0
	if event.StartTime != nil {
		if ph, pm, ps, perr := parseClock(*event.StartTime); perr == nil {
			h, m, sec = ph, pm, ps
		}
	}
	d := event.StartDate
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, sec, 0, loc)
}

func (s *jobService) RunDataCleanup(ctx context.Context) error {
	report, err := s.integrity.RunAllCleanup(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("数据清理任务汇总",
		zap.Any("orphans", report.Orphans),
		zap.Int64("soft_deleted_events", report.SoftDeletedEventsRemoved),
		zap.Int64("reminders", report.RemindersRemoved),
		zap.Int64("history", report.HistoryRemoved))
	return nil
}

func (s *jobService) RunOldInstanceCleanup(ctx context.Context) error {
	deleted, err := s.instances.CleanupOldInstances(ctx, s.cfg.InstanceRetentionDays)
	if err != nil {
		return err
	}
	s.logger.Info("历史实例清理任务汇总", zap.Int64("deleted", deleted))
	return nil
}

func (s *jobService) RunIntegrityVerification(ctx context.Context) error {
	report, err := s.integrity.VerifyIntegrity(ctx)
	if err != nil {
		return err
	}
	var total int64
	for _, count := range report.Orphans {
		total += count
	}
	if total > 0 {
		s.logger.Warn("完整性检查发现孤儿数据", zap.Any("orphans", report.Orphans))
	} else {
		s.logger.Info("完整性检查通过")
	}
	return nil
}
