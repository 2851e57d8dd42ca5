package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"chrono-union/backend/internal/dto"
	"chrono-union/backend/internal/model"
	"chrono-union/backend/internal/repository"
)

// ── 实例物化模块业务错误 ──

var (
	ErrEventNotFound    = errors.New("事件不存在")
	ErrInstanceNotFound = errors.New("事件实例不存在")
	ErrInvalidDateRange = errors.New("无效的日期区间")
)

// InstanceService 重复事件实例物化业务接口
type InstanceService interface {
	// 为单个事件重建 [今天, 今天+daysAhead] 窗口内的实例。
	// 窗口内全部旧实例（含已修改/已取消）被删除后重新生成。
	GenerateInstances(ctx context.Context, eventID int64, daysAhead int) (int, error)
	// 为全部重复事件重建实例，单个事件失败不影响其余事件
	RegenerateAllInstances(ctx context.Context, daysAhead int) (*dto.RegenerateAllResponse, error)
	// 修改单次实例
	ModifyInstance(ctx context.Context, instanceID int64, req *dto.ModifyInstanceRequest) (*dto.InstanceResponse, error)
	// 按父事件与日期修改单次实例
	ModifyInstanceByDate(ctx context.Context, eventID int64, date string, req *dto.ModifyInstanceRequest) (*dto.InstanceResponse, error)
	// 取消单次实例
	CancelInstance(ctx context.Context, instanceID int64, req *dto.CancelInstanceRequest) (*dto.InstanceResponse, error)
	// 按父事件与日期取消单次实例
	CancelInstanceByDate(ctx context.Context, eventID int64, date string, req *dto.CancelInstanceRequest) (*dto.InstanceResponse, error)
	// 查询事件在日期区间内的实例
	GetInstances(ctx context.Context, eventID int64, startDate, endDate string) ([]dto.InstanceResponse, error)
	// 删除 instance_date 早于等于 今天-daysToKeep 的历史实例
	CleanupOldInstances(ctx context.Context, daysToKeep int) (int64, error)
}

type instanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewInstanceService 创建 InstanceService 实例
func NewInstanceService(repo *repository.Repository, logger *zap.Logger) InstanceService {
	return &instanceService{repo: repo, logger: logger, now: time.Now}
}

func (s *instanceService) GenerateInstances(ctx context.Context, eventID int64, daysAhead int) (int, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEventNotFound
		}
		return 0, err
	}
	if !event.IsRecurring {
		return 0, nil
	}

	rule, err := s.repo.RecurrenceRule.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("重复事件缺少重复规则，跳过实例生成",
				zap.Int64("event_id", eventID))
			return 0, nil
		}
		return 0, err
	}

	today := model.DateOnly(s.now().UTC())
	horizonEnd := today.AddDate(0, 0, daysAhead)

	var instances []model.RecurrenceInstance
	for _, date := range ExpandPattern(rule, horizonEnd) {
		if date.Before(today) {
			continue
		}
		instances = append(instances, model.RecurrenceInstance{
			ParentEventID: eventID,
			InstanceDate:  date,
			StartTime:     event.StartTime,
			EndTime:       event.EndTime,
			Timezone:      event.Timezone,
			Status:        model.InstanceStatusGenerated,
		})
	}

	if err := s.repo.RecurrenceInstance.ReplaceWindow(ctx, eventID, today, horizonEnd, instances); err != nil {
		return 0, err
	}

	s.logger.Info("实例生成完成",
		zap.Int64("event_id", eventID),
		zap.Int("generated", len(instances)),
		zap.Time("horizon_end", horizonEnd))
	return len(instances), nil
}

func (s *instanceService) RegenerateAllInstances(ctx context.Context, daysAhead int) (*dto.RegenerateAllResponse, error) {
	events, err := s.repo.Event.ListRecurring(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.RegenerateAllResponse{}
	for _, event := range events {
		generated, err := s.GenerateInstances(ctx, event.ID, daysAhead)
		if err != nil {
			// 单个事件失败只记录，继续处理其余事件
			s.logger.Error("事件实例重建失败",
				zap.Int64("event_id", event.ID),
				zap.Error(err))
			continue
		}
		resp.Events++
		resp.Generated += generated
	}
	return resp, nil
}

func (s *instanceService) ModifyInstance(ctx context.Context, instanceID int64, req *dto.ModifyInstanceRequest) (*dto.InstanceResponse, error) {
	instance, err := s.repo.RecurrenceInstance.GetByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		instance.ModifiedTitle = req.Title
	}
	if req.Description != nil {
		instance.ModifiedDescription = req.Description
	}
	if req.Location != nil {
		instance.ModifiedLocation = req.Location
	}
	if req.StartTime != nil {
		instance.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		instance.EndTime = req.EndTime
	}
	if req.AssignedTo != nil {
		instance.ModifiedAssignedTo = req.AssignedTo
	}

	now := s.now().UTC()
	instance.Status = model.InstanceStatusModified
	instance.ModifiedAt = &now
	instance.ModifiedBy = &req.ModifiedBy

	if err := s.repo.RecurrenceInstance.Update(ctx, instance); err != nil {
		return nil, err
	}
	return s.toInstanceResponse(ctx, instance)
}

func (s *instanceService) ModifyInstanceByDate(ctx context.Context, eventID int64, date string, req *dto.ModifyInstanceRequest) (*dto.InstanceResponse, error) {
	instance, err := s.findByEventAndDate(ctx, eventID, date)
	if err != nil {
		return nil, err
	}
	return s.ModifyInstance(ctx, instance.ID, req)
}

func (s *instanceService) CancelInstance(ctx context.Context, instanceID int64, req *dto.CancelInstanceRequest) (*dto.InstanceResponse, error) {
	instance, err := s.repo.RecurrenceInstance.GetByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}

	now := s.now().UTC()
	instance.Status = model.InstanceStatusCancelled
	instance.ModifiedAt = &now
	instance.ModifiedBy = &req.CancelledBy

	if err := s.repo.RecurrenceInstance.Update(ctx, instance); err != nil {
		return nil, err
	}
	return s.toInstanceResponse(ctx, instance)
}

func (s *instanceService) CancelInstanceByDate(ctx context.Context, eventID int64, date string, req *dto.CancelInstanceRequest) (*dto.InstanceResponse, error) {
	instance, err := s.findByEventAndDate(ctx, eventID, date)
	if err != nil {
		return nil, err
	}
	return s.CancelInstance(ctx, instance.ID, req)
}

// findByEventAndDate 按父事件与日期定位实例
func (s *instanceService) findByEventAndDate(ctx context.Context, eventID int64, date string) (*model.RecurrenceInstance, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: 实例日期 %s", ErrInvalidDateRange, date)
	}
	instance, err := s.repo.RecurrenceInstance.GetByEventAndDate(ctx, eventID, model.DateOnly(day))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	return instance, nil
}

func (s *instanceService) GetInstances(ctx context.Context, eventID int64, startDate, endDate string) ([]dto.InstanceResponse, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 起始日期 %s", ErrInvalidDateRange, startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 结束日期 %s", ErrInvalidDateRange, endDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: 结束日期早于起始日期", ErrInvalidDateRange)
	}

	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	instances, err := s.repo.RecurrenceInstance.ListByEventRange(ctx, eventID, start, end)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.InstanceResponse, 0, len(instances))
	for i := range instances {
		responses = append(responses, mergeInstance(event, &instances[i]))
	}
	return responses, nil
}

func (s *instanceService) CleanupOldInstances(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := model.DateOnly(s.now().UTC()).AddDate(0, 0, -daysToKeep)
	deleted, err := s.repo.RecurrenceInstance.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("历史实例清理完成",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

func (s *instanceService) toInstanceResponse(ctx context.Context, instance *model.RecurrenceInstance) (*dto.InstanceResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, instance.ParentEventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	resp := mergeInstance(event, instance)
	return &resp, nil
}

// mergeInstance 把父事件字段与实例的 Modified* 覆盖值合并为展示视图
func mergeInstance(event *model.CalendarEvent, instance *model.RecurrenceInstance) dto.InstanceResponse {
	resp := dto.InstanceResponse{
		ID:            instance.ID,
		ParentEventID: instance.ParentEventID,
		InstanceDate:  instance.InstanceDate.Format(dateLayout),
		StartTime:     instance.StartTime,
		EndTime:       instance.EndTime,
		Timezone:      instance.Timezone,
		Status:        instance.Status,
		Title:         event.Title,
		Description:   event.Description,
		Location:      event.Location,
		AssignedTo:    event.AssignedTo,
		ModifiedAt:    instance.ModifiedAt,
	}
	if instance.ModifiedTitle != nil {
		resp.Title = *instance.ModifiedTitle
	}
	if instance.ModifiedDescription != nil {
		resp.Description = instance.ModifiedDescription
	}
	if instance.ModifiedLocation != nil {
		resp.Location = instance.ModifiedLocation
	}
	if instance.ModifiedAssignedTo != nil {
		resp.AssignedTo = instance.ModifiedAssignedTo
	}
	return resp
}
