package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"chrono-union/backend/internal/model"
	"chrono-union/backend/internal/repository"
)

// ICS 订阅视野，未来一年
const icsFeedDays = 365

// ICSService 把事件及其物化实例序列化为 iCalendar 文档
type ICSService interface {
	SerializeEvent(ctx context.Context, eventID int64) (string, error)
}

type icsService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewICSService 创建 ICSService 实例
func NewICSService(repo *repository.Repository, logger *zap.Logger) ICSService {
	return &icsService{repo: repo, logger: logger, now: time.Now}
}

func (s *icsService) SerializeEvent(ctx context.Context, eventID int64) (string, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEventNotFound
		}
		return "", err
	}

	loc, err := time.LoadLocation(event.Timezone)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTimezone, event.Timezone)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//chrono-union//calendar//CN")

	if !event.IsRecurring {
		s.appendVEvent(cal, event, nil, loc)
		return cal.Serialize(), nil
	}

	today := model.DateOnly(s.now().UTC())
	instances, err := s.repo.RecurrenceInstance.ListByEventRange(
		ctx, eventID, model.DateOnly(event.StartDate), today.AddDate(0, 0, icsFeedDays))
	if err != nil {
		return "", err
	}
	for i := range instances {
		if instances[i].Status == model.InstanceStatusCancelled {
			continue
		}
		s.appendVEvent(cal, event, &instances[i], loc)
	}
	return cal.Serialize(), nil
}

// appendVEvent 追加一个 VEVENT。instance 为 nil 时导出事件本体，
// 否则导出单个物化实例（Modified* 覆盖父事件字段）。
func (s *icsService) appendVEvent(cal *ics.Calendar, event *model.CalendarEvent, instance *model.RecurrenceInstance, loc *time.Location) {
	var (
		uid       string
		date      time.Time
		startTime *string
		endTime   *string
		title     = event.Title
		desc      = event.Description
		location  = event.Location
	)

	if instance == nil {
		uid = fmt.Sprintf("event-%d@chrono-union", event.ID)
		date = event.StartDate
		startTime = event.StartTime
		endTime = event.EndTime
	} else {
		uid = fmt.Sprintf("event-%d-instance-%d@chrono-union", event.ID, instance.ID)
		date = instance.InstanceDate
		startTime = instance.StartTime
		endTime = instance.EndTime
		if instance.ModifiedTitle != nil {
			title = *instance.ModifiedTitle
		}
		if instance.ModifiedDescription != nil {
			desc = instance.ModifiedDescription
		}
		if instance.ModifiedLocation != nil {
			location = instance.ModifiedLocation
		}
	}

	v := cal.AddEvent(uid)
	v.SetDtStampTime(s.now().UTC())
	v.SetSummary(title)
	if desc != nil && *desc != "" {
		v.SetDescription(*desc)
	}
	if location != nil && *location != "" {
		v.SetLocation(*location)
	}

	if startTime == nil || *startTime == "" {
		// 全天事件
		v.SetAllDayStartAt(date)
		v.SetAllDayEndAt(date.AddDate(0, 0, 1))
		return
	}

	start := combineDateClock(date, *startTime, loc)
	v.SetStartAt(start)
	if endTime != nil && *endTime != "" {
		end := combineDateClock(date, *endTime, loc)
		if !end.After(start) {
			// 跨午夜
			end = end.AddDate(0, 0, 1)
		}
		v.SetEndAt(end)
	}
}

// combineDateClock 把 DATE 与 HH:MM:SS 时钟组合为指定时区的时刻
func combineDateClock(date time.Time, clock string, loc *time.Location) time.Time {
	h, m, sec, err := parseClock(clock)
	if err != nil {
		h, m, sec = 0, 0, 0
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, sec, 0, loc)
}
