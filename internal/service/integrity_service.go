package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"chrono-union/backend/config"
	"chrono-union/backend/internal/dto"
	"chrono-union/backend/internal/repository"
)

// IntegrityService 数据完整性维护业务接口。
// 子表无外键约束，孤儿行依赖此服务周期性清除。
type IntegrityService interface {
	// 删除全部子表中父事件已不存在（或已软删除）的孤儿行
	CleanupOrphans(ctx context.Context) (map[string]int64, error)
	// 物理删除软删除超过 daysToKeep 天的事件
	CleanupSoftDeletedEvents(ctx context.Context, daysToKeep int) (int64, error)
	// 删除发送超过 daysToKeep 天的提醒
	CleanupOldReminders(ctx context.Context, daysToKeep int) (int64, error)
	// 删除超过 daysToKeep 天的变更历史
	CleanupOldHistory(ctx context.Context, daysToKeep int) (int64, error)
	// 只读完整性检查，统计各类孤儿数量
	VerifyIntegrity(ctx context.Context) (*dto.IntegrityReport, error)
	// 按配置的保留期执行一轮完整清理
	RunAllCleanup(ctx context.Context) (*dto.CleanupReport, error)
	// 校验单个事件的数据一致性
	ValidateEvent(ctx context.Context, eventID int64) (*dto.ValidateEventResponse, error)
}

type integrityService struct {
	repo   *repository.Repository
	cfg    *config.JobsConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewIntegrityService 创建 IntegrityService 实例
func NewIntegrityService(repo *repository.Repository, cfg *config.JobsConfig, logger *zap.Logger) IntegrityService {
	return &integrityService{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

func (s *integrityService) CleanupOrphans(ctx context.Context) (map[string]int64, error) {
	removed := make(map[string]int64, len(repository.OrphanTargets))
	for _, target := range repository.OrphanTargets {
		count, err := s.repo.Integrity.DeleteOrphans(ctx, target)
		if err != nil {
			return removed, fmt.Errorf("清理孤儿数据失败（%s）: %w", target.Table, err)
		}
		removed[target.Name] = count
		if count > 0 {
			s.logger.Info("孤儿数据已清除",
				zap.String("table", target.Table),
				zap.Int64("removed", count))
		}
	}
	return removed, nil
}

func (s *integrityService) CleanupSoftDeletedEvents(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -daysToKeep)
	deleted, err := s.repo.Integrity.DeleteSoftDeletedEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("软删除事件已物理清除",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

func (s *integrityService) CleanupOldReminders(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -daysToKeep)
	deleted, err := s.repo.Reminder.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("历史提醒已清除",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

func (s *integrityService) CleanupOldHistory(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -daysToKeep)
	deleted, err := s.repo.Integrity.DeleteHistoryBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("变更历史已清除",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

func (s *integrityService) VerifyIntegrity(ctx context.Context) (*dto.IntegrityReport, error) {
	report := &dto.IntegrityReport{
		Orphans:     make(map[string]int64, len(repository.OrphanTargets)),
		TableCounts: make(map[string]int64, len(repository.OrphanTargets)+1),
		CheckedAt:   s.now().UTC(),
	}
	total, err := s.repo.Integrity.CountTable(ctx, "calendar_events")
	if err != nil {
		return nil, fmt.Errorf("完整性检查失败（calendar_events）: %w", err)
	}
	report.TableCounts["calendar_events"] = total
	for _, target := range repository.OrphanTargets {
		count, err := s.repo.Integrity.CountOrphans(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("完整性检查失败（%s）: %w", target.Table, err)
		}
		report.Orphans[target.Name] = count
		rows, err := s.repo.Integrity.CountTable(ctx, target.Table)
		if err != nil {
			return nil, fmt.Errorf("完整性检查失败（%s）: %w", target.Table, err)
		}
		report.TableCounts[target.Table] = rows
	}
	// 实体关联校验需要跨模块查询目标表，当前版本恒为 0
	report.InvalidEntityLinks = 0
	return report, nil
}

func (s *integrityService) RunAllCleanup(ctx context.Context) (*dto.CleanupReport, error) {
	orphans, err := s.CleanupOrphans(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.CleanupSoftDeletedEvents(ctx, s.cfg.SoftDeleteRetentionDays)
	if err != nil {
		return nil, err
	}
	reminders, err := s.CleanupOldReminders(ctx, s.cfg.ReminderRetentionDays)
	if err != nil {
		return nil, err
	}
	history, err := s.CleanupOldHistory(ctx, s.cfg.HistoryRetentionDays)
	if err != nil {
		return nil, err
	}
	return &dto.CleanupReport{
		Orphans:                  orphans,
		SoftDeletedEventsRemoved: events,
		RemindersRemoved:         reminders,
		HistoryRemoved:           history,
		FinishedAt:               s.now().UTC(),
	}, nil
}

func (s *integrityService) ValidateEvent(ctx context.Context, eventID int64) (*dto.ValidateEventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	var problems []string

	if event.EndDate.Before(event.StartDate) {
		problems = append(problems, "结束日期早于开始日期")
	}
	if event.StartTime != nil && event.EndTime != nil &&
		sameDate(event.StartDate, event.EndDate) && *event.StartTime > *event.EndTime {
		problems = append(problems, "同日事件的开始时间晚于结束时间")
	}
	if _, err := time.LoadLocation(event.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("无效的时区标识: %s", event.Timezone))
	}
	if event.IsRecurring {
		if _, err := s.repo.RecurrenceRule.GetByEventID(ctx, eventID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				problems = append(problems, "重复事件缺少重复规则")
			} else {
				return nil, err
			}
		}
	}

	return &dto.ValidateEventResponse{
		EventID: eventID,
		Valid:   len(problems) == 0,
		Errors:  problems,
	}, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
