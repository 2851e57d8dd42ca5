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

// ── 事件模块业务错误 ──

var ErrInvalidEventData = errors.New("无效的事件数据")

var validFrequencies = map[string]bool{
	model.FrequencyDaily:   true,
	model.FrequencyWeekly:  true,
	model.FrequencyMonthly: true,
	model.FrequencyYearly:  true,
}

// EventService 日历事件业务接口。写操作同步记录变更历史，
// 更新通过版本号乐观锁防止并发覆盖。
type EventService interface {
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*model.CalendarEvent, error)
	GetEvent(ctx context.Context, id int64) (*model.CalendarEvent, error)
	// 查询与日期区间有交集的事件
	ListEvents(ctx context.Context, startDate, endDate string) ([]model.CalendarEvent, error)
	// 版本不匹配时返回 pkg/errors.ErrOptimisticLock
	UpdateEvent(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id int64, req *dto.DeleteEventRequest) error
	// 为事件创建提醒，相对提醒按事件开始时刻折算为绝对触发时刻
	CreateReminder(ctx context.Context, eventID int64, req *dto.CreateReminderRequest) (*model.Reminder, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

func (s *eventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*model.CalendarEvent, error) {
	startDate, err := parseEventDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseEventDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	event := &model.CalendarEvent{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartDate:      startDate,
		EndDate:        endDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Timezone:       req.Timezone,
		IsFloatingTime: req.IsFloatingTime,
		Module:         req.Module,
		EventType:      req.EventType,
		Status:         model.EventStatusScheduled,
		Priority:       req.Priority,
		Visibility:     req.Visibility,
		IsRecurring:    req.Recurrence != nil,
		CreatedBy:      req.CreatedBy,
		AssignedTo:     req.AssignedTo,
	}
	if event.Timezone == "" {
		event.Timezone = "UTC"
	}
	if event.Priority == "" {
		event.Priority = model.EventPriorityMedium
	}
	if event.Visibility == "" {
		event.Visibility = model.EventVisibilityTeam
	}

	if err := validateEventFields(event); err != nil {
		return nil, err
	}

	var rule *model.RecurrenceRule
	if req.Recurrence != nil {
		rule, err = ruleFromRequest(req.Recurrence, startDate)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, err
	}
	if rule != nil {
		rule.EventID = event.ID
		if err := s.repo.RecurrenceRule.Create(ctx, rule); err != nil {
			return nil, err
		}
	}

	s.recordHistory(ctx, &model.EventHistory{
		EventID:    event.ID,
		ChangeType: model.ChangeTypeCreated,
		ChangedBy:  req.CreatedBy,
	})
	s.logger.Info("事件已创建",
		zap.Int64("event_id", event.ID),
		zap.Bool("recurring", event.IsRecurring))
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, startDate, endDate string) ([]model.CalendarEvent, error) {
	start, err := parseEventDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseEventDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	return s.repo.Event.ListInRange(ctx, start, end)
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*model.CalendarEvent, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes []model.EventHistory
	track := func(field, prev, next string) {
		if prev == next {
			return
		}
		p, n := prev, next
		changes = append(changes, model.EventHistory{
			EventID:       id,
			ChangeType:    model.ChangeTypeUpdated,
			ChangedBy:     req.UpdatedBy,
			FieldChanged:  &field,
			PreviousValue: &p,
			NewValue:      &n,
			ChangeReason:  req.Reason,
		})
	}

	if req.Title != nil {
		track("title", event.Title, *req.Title)
		event.Title = *req.Title
	}
	if req.Description != nil {
		track("description", strOrEmpty(event.Description), *req.Description)
		event.Description = req.Description
	}
	if req.Location != nil {
		track("location", strOrEmpty(event.Location), *req.Location)
		event.Location = req.Location
	}
	if req.StartDate != nil {
		d, err := parseEventDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		track("start_date", event.StartDate.Format(dateLayout), *req.StartDate)
		event.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseEventDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		track("end_date", event.EndDate.Format(dateLayout), *req.EndDate)
		event.EndDate = d
	}
	if req.StartTime != nil {
		track("start_time", strOrEmpty(event.StartTime), *req.StartTime)
		event.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		track("end_time", strOrEmpty(event.EndTime), *req.EndTime)
		event.EndTime = req.EndTime
	}
	if req.Timezone != nil {
		track("timezone", event.Timezone, *req.Timezone)
		event.Timezone = *req.Timezone
	}
	if req.Status != nil {
		track("status", event.Status, *req.Status)
		event.Status = *req.Status
	}
	if req.Priority != nil {
		track("priority", event.Priority, *req.Priority)
		event.Priority = *req.Priority
	}
	if req.Visibility != nil {
		track("visibility", event.Visibility, *req.Visibility)
		event.Visibility = *req.Visibility
	}
	if req.AssignedTo != nil {
		track("assigned_to", int64OrEmpty(event.AssignedTo), fmt.Sprintf("%d", *req.AssignedTo))
		event.AssignedTo = req.AssignedTo
	}

	if err := validateEventFields(event); err != nil {
		return nil, err
	}

	// 以调用方声明的版本做 CAS，落后于当前版本时由存储层拒绝
	event.Version = req.Version
	if err := s.repo.Event.Update(ctx, event); err != nil {
		return nil, err
	}

	for i := range changes {
		s.recordHistory(ctx, &changes[i])
	}
	s.logger.Info("事件已更新",
		zap.Int64("event_id", id),
		zap.Int("fields", len(changes)),
		zap.Int("version", event.Version))
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64, req *dto.DeleteEventRequest) error {
	if _, err := s.GetEvent(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Event.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.recordHistory(ctx, &model.EventHistory{
		EventID:      id,
		ChangeType:   model.ChangeTypeDeleted,
		ChangedBy:    req.DeletedBy,
		ChangeReason: req.Reason,
	})
	s.logger.Info("事件已删除", zap.Int64("event_id", id))
	return nil
}

func (s *eventService) CreateReminder(ctx context.Context, eventID int64, req *dto.CreateReminderRequest) (*model.Reminder, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = model.ReminderMethodInApp
	}
	switch method {
	case model.ReminderMethodInApp, model.ReminderMethodEmail, model.ReminderMethodBoth:
	default:
		return nil, fmt.Errorf("%w: 未知的提醒方式 %s", ErrInvalidEventData, method)
	}
	if method != model.ReminderMethodInApp && (req.RecipientEmail == nil || *req.RecipientEmail == "") {
		return nil, fmt.Errorf("%w: 邮件提醒缺少收件地址", ErrInvalidEventData)
	}

	var reminderTime time.Time
	switch {
	case req.ReminderTime != nil:
		reminderTime, err = time.Parse(time.RFC3339, *req.ReminderTime)
		if err != nil {
			return nil, fmt.Errorf("%w: 提醒时刻 %s", ErrInvalidEventData, *req.ReminderTime)
		}
		reminderTime = reminderTime.UTC()
	case req.RelativeMinutes != nil:
		if *req.RelativeMinutes < 0 {
			return nil, fmt.Errorf("%w: 相对提醒分钟数不能为负", ErrInvalidEventData)
		}
		reminderTime = eventStartInstant(event).
			Add(-time.Duration(*req.RelativeMinutes) * time.Minute).UTC()
	default:
		return nil, fmt.Errorf("%w: 提醒时刻与相对分钟数必须二选一", ErrInvalidEventData)
	}

	reminder := &model.Reminder{
		EventID:         eventID,
		UserID:          req.UserID,
		ReminderTime:    reminderTime,
		RelativeMinutes: req.RelativeMinutes,
		Method:          method,
		RecipientEmail:  req.RecipientEmail,
		Status:          model.ReminderStatusPending,
	}
	if err := s.repo.Reminder.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// recordHistory 历史落库失败只记录告警，不回滚主操作
func (s *eventService) recordHistory(ctx context.Context, entry *model.EventHistory) {
	if err := s.repo.History.Create(ctx, entry); err != nil {
		s.logger.Warn("事件历史写入失败",
			zap.Int64("event_id", entry.EventID),
			zap.String("change_type", entry.ChangeType),
			zap.Error(err))
	}
}

// validateEventFields 校验事件日期、时钟与时区的内部一致性
func validateEventFields(event *model.CalendarEvent) error {
	if event.EndDate.Before(event.StartDate) {
		return fmt.Errorf("%w: 结束日期早于开始日期", ErrInvalidEventData)
	}
	if event.StartDate.Equal(event.EndDate) &&
		event.StartTime != nil && event.EndTime != nil &&
		*event.StartTime > *event.EndTime {
		return fmt.Errorf("%w: 同日事件的开始时间晚于结束时间", ErrInvalidEventData)
	}
	if _, err := time.LoadLocation(event.Timezone); err != nil {
		return fmt.Errorf("%w: 无效的时区标识 %s", ErrInvalidEventData, event.Timezone)
	}
	return nil
}

func ruleFromRequest(req *dto.RecurrenceRuleRequest, eventStart time.Time) (*model.RecurrenceRule, error) {
	if !validFrequencies[req.Frequency] {
		return nil, fmt.Errorf("%w: 未知的重复频率 %s", ErrInvalidEventData, req.Frequency)
	}
	interval := req.Interval
	if interval <= 0 {
		interval = 1
	}

	rule := &model.RecurrenceRule{
		Frequency:  req.Frequency,
		Interval:   interval,
		ByDay:      model.IntArray(req.ByDay),
		ByMonthDay: model.IntArray(req.ByMonthDay),
		ByMonth:    model.IntArray(req.ByMonth),
		StartDate:  eventStart,
		Count:      req.Count,
	}
	if req.EndDate != nil {
		d, err := parseEventDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		rule.EndDate = &d
	}
	for _, raw := range req.ExceptionDates {
		d, err := parseEventDate(raw)
		if err != nil {
			return nil, err
		}
		rule.ExceptionDates = append(rule.ExceptionDates, d)
	}
	return rule, nil
}

func parseEventDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 日期 %s", ErrInvalidEventData, raw)
	}
	return model.DateOnly(d), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func int64OrEmpty(p *int64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}
