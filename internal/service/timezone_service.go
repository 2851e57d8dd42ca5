package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chrono-union/backend/internal/dto"
)

// ── 时区模块业务错误 ──

var (
	ErrInvalidTimezone = errors.New("无效的 IANA 时区标识")
	ErrInvalidDateTime = errors.New("无效的日期时间")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	// 默认格式化布局
	defaultDateTimeLayout = "2006-01-02 15:04:05 MST"
)

// TimezoneService 时区业务接口。全部操作无状态，不触达存储。
type TimezoneService interface {
	// 判断是否为有效 IANA 时区
	IsValidTimezone(tz string) bool
	// 校验时区，无效时返回 ErrInvalidTimezone
	ValidateTimezone(tz string) error
	// 墙上时钟跨时区转换，time 为空表示全天事件仅透传日期
	ConvertTimezone(req *dto.ConvertTimezoneRequest) (*dto.ConvertTimezoneResponse, error)
	// 校验墙上时钟在指定时区是否真实存在（DST 跳变检测）
	ValidateDateTime(req *dto.ValidateDateTimeRequest) (*dto.ValidateDateTimeResponse, error)
	// 指定时区的当前日期时间
	GetCurrentTime(tz string) (*dto.CurrentTimeResponse, error)
	// 按布局格式化日期时间
	FormatDateTime(req *dto.FormatDateTimeRequest) (string, error)
	// 计算两个日期时间之间的时长，按指定时区解析，支持跨午夜与多天
	CalculateDuration(req *dto.DurationRequest) (*dto.DurationResponse, error)
	// 判断指定墙上时钟是否处于夏令时
	IsInDST(date, clock, tz string) (bool, error)
	// 查询时区在指定日期的 UTC 偏移，date 为空取当天
	GetTimezoneOffset(tz, date string) (*dto.OffsetResponse, error)
}

type timezoneService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewTimezoneService 创建 TimezoneService 实例
func NewTimezoneService(logger *zap.Logger) TimezoneService {
	return &timezoneService{logger: logger, now: time.Now}
}

func (s *timezoneService) IsValidTimezone(tz string) bool {
	return s.ValidateTimezone(tz) == nil
}

func (s *timezoneService) ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("%w: 时区为空", ErrInvalidTimezone)
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}
	return nil
}

func (s *timezoneService) ConvertTimezone(req *dto.ConvertTimezoneRequest) (*dto.ConvertTimezoneResponse, error) {
	fromLoc, err := loadLocation(req.FromTimezone)
	if err != nil {
		return nil, err
	}
	toLoc, err := loadLocation(req.ToTimezone)
	if err != nil {
		return nil, err
	}

	// 全天事件没有具体时刻，日期直接透传
	if req.Time == nil || *req.Time == "" {
		if _, err := time.Parse(dateLayout, req.Date); err != nil {
			return nil, fmt.Errorf("%w: 日期 %s", ErrInvalidDateTime, req.Date)
		}
		return &dto.ConvertTimezoneResponse{
			Date:     req.Date,
			Timezone: req.ToTimezone,
		}, nil
	}

	t, err := s.resolveWallClock(req.Date, *req.Time, fromLoc, req.FromTimezone)
	if err != nil {
		return nil, err
	}

	converted := t.In(toLoc)
	clock := converted.Format(timeLayout)
	return &dto.ConvertTimezoneResponse{
		Date:     converted.Format(dateLayout),
		Time:     &clock,
		Timezone: req.ToTimezone,
	}, nil
}

func (s *timezoneService) ValidateDateTime(req *dto.ValidateDateTimeRequest) (*dto.ValidateDateTimeResponse, error) {
	loc, err := loadLocation(req.Timezone)
	if err != nil {
		return nil, err
	}

	t, ghostErr := s.resolveWallClock(req.Date, req.Time, loc, req.Timezone)
	if ghostErr != nil {
		if errors.Is(ghostErr, ErrInvalidDateTime) {
			return &dto.ValidateDateTimeResponse{
				Valid:   false,
				Message: ghostErr.Error(),
			}, nil
		}
		return nil, ghostErr
	}

	resp := &dto.ValidateDateTimeResponse{Valid: true}
	if _, ambiguous := earliestOccurrence(t); ambiguous {
		resp.Ambiguous = true
		resp.Message = fmt.Sprintf("时间 %s 在时区 %s 出现两次，按第一次出现处理", req.Time, req.Timezone)
	}
	return resp, nil
}

func (s *timezoneService) GetCurrentTime(tz string) (*dto.CurrentTimeResponse, error) {
	loc, err := loadLocation(tz)
	if err != nil {
		return nil, err
	}
	now := s.now().In(loc)
	return &dto.CurrentTimeResponse{
		Date:     now.Format(dateLayout),
		Time:     now.Format(timeLayout),
		Timezone: tz,
	}, nil
}

func (s *timezoneService) FormatDateTime(req *dto.FormatDateTimeRequest) (string, error) {
	loc, err := loadLocation(req.Timezone)
	if err != nil {
		return "", err
	}

	layout := req.Layout
	if req.Time == nil || *req.Time == "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return "", fmt.Errorf("%w: 日期 %s", ErrInvalidDateTime, req.Date)
		}
		if layout == "" {
			layout = dateLayout
		}
		return d.Format(layout), nil
	}

	t, err := s.resolveWallClock(req.Date, *req.Time, loc, req.Timezone)
	if err != nil {
		return "", err
	}
	if layout == "" {
		layout = defaultDateTimeLayout
	}
	return t.Format(layout), nil
}

func (s *timezoneService) CalculateDuration(req *dto.DurationRequest) (*dto.DurationResponse, error) {
	loc, err := loadLocation(req.Timezone)
	if err != nil {
		return nil, err
	}
	start, err := s.resolveWallClock(req.StartDate, req.StartTime, loc, req.Timezone)
	if err != nil {
		return nil, err
	}
	end, err := s.resolveWallClock(req.EndDate, req.EndTime, loc, req.Timezone)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: 结束时刻早于开始时刻", ErrInvalidDateTime)
	}

	total := int(end.Sub(start) / time.Minute)
	return &dto.DurationResponse{
		Hours:        total / 60,
		Minutes:      total % 60,
		TotalMinutes: total,
	}, nil
}

func (s *timezoneService) IsInDST(date, clock, tz string) (bool, error) {
	loc, err := loadLocation(tz)
	if err != nil {
		return false, err
	}
	t, err := s.resolveWallClock(date, clock, loc, tz)
	if err != nil {
		return false, err
	}
	return t.IsDST(), nil
}

func (s *timezoneService) GetTimezoneOffset(tz, date string) (*dto.OffsetResponse, error) {
	loc, err := loadLocation(tz)
	if err != nil {
		return nil, err
	}

	var t time.Time
	if date == "" {
		t = s.now().In(loc)
	} else {
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("%w: 日期 %s", ErrInvalidDateTime, date)
		}
		// 取正午避开当日 DST 跳变
		t = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
	}

	name, offsetSeconds := t.Zone()
	return &dto.OffsetResponse{
		Timezone:      tz,
		OffsetMinutes: offsetSeconds / 60,
		Abbreviation:  name,
		IsDST:         t.IsDST(),
	}, nil
}

// ── 内部辅助 ──

func loadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, fmt.Errorf("%w: 时区为空", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// resolveWallClock 把墙上时钟解析为具体时刻。
// 幽灵时间（DST 春季跳变中不存在的时钟）返回 ErrInvalidDateTime 并指明跳变区间；
// 歧义时间（秋季回拨中出现两次的时钟）取第一次出现并记录告警。
func (s *timezoneService) resolveWallClock(date, clock string, loc *time.Location, tz string) (time.Time, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 日期 %s", ErrInvalidDateTime, date)
	}
	h, m, sec, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	t := time.Date(d.Year(), d.Month(), d.Day(), h, m, sec, 0, loc)
	if t.Year() != d.Year() || t.Month() != d.Month() || t.Day() != d.Day() ||
		t.Hour() != h || t.Minute() != m || t.Second() != sec {
		pre, post := dstJump(t)
		return time.Time{}, fmt.Errorf("%w: 时间 %s 在时区 %s 不存在，该日时钟从 %s 跳到 %s",
			ErrInvalidDateTime, clock, tz, pre, post)
	}

	resolved, ambiguous := earliestOccurrence(t)
	if ambiguous {
		s.logger.Warn("墙上时钟存在歧义，按第一次出现处理",
			zap.String("date", date),
			zap.String("time", clock),
			zap.String("timezone", tz))
	}
	return resolved, nil
}

// earliestOccurrence 检测秋季回拨造成的歧义时钟。
// 若同一墙上时钟对应两个时刻，返回较早的一个和 true。
func earliestOccurrence(t time.Time) (time.Time, bool) {
	earliest := t
	ambiguous := false
	for _, delta := range []time.Duration{-time.Hour, time.Hour, -30 * time.Minute, 30 * time.Minute} {
		candidate := t.Add(delta)
		if sameWallClock(candidate, t) && !candidate.Equal(t) {
			ambiguous = true
			if candidate.Before(earliest) {
				earliest = candidate
			}
		}
	}
	return earliest, ambiguous
}

func sameWallClock(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute() && a.Second() == b.Second()
}

// dstJump 定位 around 附近的 DST 跳变，返回跳变前后的墙上时钟（HH:MM）。
// 以分钟精度二分查找偏移变化点。
func dstJump(around time.Time) (pre, post string) {
	lo := around.Add(-24 * time.Hour)
	hi := around.Add(24 * time.Hour)
	_, loOffset := lo.Zone()
	_, hiOffset := hi.Zone()
	if loOffset == hiOffset {
		return "", ""
	}
	for hi.Sub(lo) > time.Minute {
		mid := lo.Add(hi.Sub(lo) / 2).Truncate(time.Minute)
		if mid.Equal(lo) {
			break
		}
		if _, off := mid.Zone(); off == loOffset {
			lo = mid
		} else {
			hi = mid
		}
	}

	// hi 为跳变后的第一分钟；跳变前的目标时钟为最后一分钟再加一分钟
	post = hi.Format("15:04")
	lastBefore := hi.Add(-time.Minute)
	ph, pm := lastBefore.Hour(), lastBefore.Minute()+1
	if pm == 60 {
		pm = 0
		ph = (ph + 1) % 24
	}
	pre = fmt.Sprintf("%02d:%02d", ph, pm)
	return pre, post
}

func parseClock(clock string) (h, m, s int, err error) {
	if len(clock) == 5 {
		clock += ":00"
	}
	t, parseErr := time.Parse(timeLayout, clock)
	if parseErr != nil {
		return 0, 0, 0, fmt.Errorf("%w: 时间 %s", ErrInvalidDateTime, clock)
	}
	return t.Hour(), t.Minute(), t.Second(), nil
}
