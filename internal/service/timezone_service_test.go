package service

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"chrono-union/backend/internal/dto"
)

func setupTestTimezoneService() TimezoneService {
	return NewTimezoneService(zap.NewNop())
}

// ── 时区校验测试 ──

func TestTimezoneService_ValidateTimezone(t *testing.T) {
	svc := setupTestTimezoneService()

	valid := []string{"UTC", "America/New_York", "Asia/Shanghai", "Europe/London"}
	for _, tz := range valid {
		if !svc.IsValidTimezone(tz) {
			t.Errorf("期望 %s 为有效时区", tz)
		}
	}

	invalid := []string{"", "Mars/Olympus", "Foo/Bar", "America/NotACity"}
	for _, tz := range invalid {
		if svc.IsValidTimezone(tz) {
			t.Errorf("期望 %s 为无效时区", tz)
		}
	}

	err := svc.ValidateTimezone("Mars/Olympus")
	if !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("期望 ErrInvalidTimezone，实际=%v", err)
	}
}

// ── DST 幽灵时间测试 ──

func TestTimezoneService_ValidateDateTime_SpringForwardGap(t *testing.T) {
	svc := setupTestTimezoneService()

	// 2025-03-09 美东 02:00-03:00 不存在
	result, err := svc.ValidateDateTime(&dto.ValidateDateTimeRequest{
		Date: "2025-03-09", Time: "02:30:00", Timezone: "America/New_York",
	})
	if err != nil {
		t.Fatalf("ValidateDateTime 应成功: %v", err)
	}
	if result.Valid {
		t.Fatal("期望 02:30 无效（DST 跳变区间）")
	}
	if !strings.Contains(result.Message, "02:00") || !strings.Contains(result.Message, "03:00") {
		t.Errorf("期望提示指明跳变区间 02:00→03:00，实际=%s", result.Message)
	}

	// 跳变边界两侧应有效
	for _, clock := range []string{"01:59:00", "03:00:00"} {
		result, err := svc.ValidateDateTime(&dto.ValidateDateTimeRequest{
			Date: "2025-03-09", Time: clock, Timezone: "America/New_York",
		})
		if err != nil {
			t.Fatalf("ValidateDateTime(%s) 应成功: %v", clock, err)
		}
		if !result.Valid {
			t.Errorf("期望 %s 有效，实际提示=%s", clock, result.Message)
		}
	}
}

func TestTimezoneService_ValidateDateTime_FallBackAmbiguous(t *testing.T) {
	svc := setupTestTimezoneService()

	// 2025-11-02 美东 01:30 出现两次，应接受并标记歧义
	result, err := svc.ValidateDateTime(&dto.ValidateDateTimeRequest{
		Date: "2025-11-02", Time: "01:30:00", Timezone: "America/New_York",
	})
	if err != nil {
		t.Fatalf("ValidateDateTime 应成功: %v", err)
	}
	if !result.Valid {
		t.Fatal("期望歧义时间被接受")
	}
	if !result.Ambiguous {
		t.Error("期望标记 Ambiguous=true")
	}
}

// ── 时区转换测试 ──

func TestTimezoneService_ConvertTimezone(t *testing.T) {
	svc := setupTestTimezoneService()

	result, err := svc.ConvertTimezone(&dto.ConvertTimezoneRequest{
		Date:         "2025-01-15",
		Time:         strPtr("12:00:00"),
		FromTimezone: "America/New_York",
		ToTimezone:   "America/Los_Angeles",
	})
	if err != nil {
		t.Fatalf("ConvertTimezone 应成功: %v", err)
	}
	if result.Date != "2025-01-15" {
		t.Errorf("期望日期=2025-01-15，实际=%s", result.Date)
	}
	if result.Time == nil || *result.Time != "09:00:00" {
		t.Errorf("期望时间=09:00:00，实际=%v", result.Time)
	}
	if result.Timezone != "America/Los_Angeles" {
		t.Errorf("期望时区=America/Los_Angeles，实际=%s", result.Timezone)
	}
}

func TestTimezoneService_ConvertTimezone_CrossesDateLine(t *testing.T) {
	svc := setupTestTimezoneService()

	// 纽约晚间 = 上海次日
	result, err := svc.ConvertTimezone(&dto.ConvertTimezoneRequest{
		Date:         "2025-01-15",
		Time:         strPtr("20:00:00"),
		FromTimezone: "America/New_York",
		ToTimezone:   "Asia/Shanghai",
	})
	if err != nil {
		t.Fatalf("ConvertTimezone 应成功: %v", err)
	}
	if result.Date != "2025-01-16" {
		t.Errorf("期望日期跨到 2025-01-16，实际=%s", result.Date)
	}
	if result.Time == nil || *result.Time != "09:00:00" {
		t.Errorf("期望时间=09:00:00，实际=%v", result.Time)
	}
}

func TestTimezoneService_ConvertTimezone_AllDayPassThrough(t *testing.T) {
	svc := setupTestTimezoneService()

	result, err := svc.ConvertTimezone(&dto.ConvertTimezoneRequest{
		Date:         "2025-06-01",
		FromTimezone: "Asia/Shanghai",
		ToTimezone:   "America/New_York",
	})
	if err != nil {
		t.Fatalf("ConvertTimezone 应成功: %v", err)
	}
	if result.Date != "2025-06-01" {
		t.Errorf("全天事件日期应透传，实际=%s", result.Date)
	}
	if result.Time != nil {
		t.Errorf("全天事件不应返回时间，实际=%v", *result.Time)
	}
}

func TestTimezoneService_ConvertTimezone_GhostTimeRejected(t *testing.T) {
	svc := setupTestTimezoneService()

	_, err := svc.ConvertTimezone(&dto.ConvertTimezoneRequest{
		Date:         "2025-03-09",
		Time:         strPtr("02:30:00"),
		FromTimezone: "America/New_York",
		ToTimezone:   "UTC",
	})
	if !errors.Is(err, ErrInvalidDateTime) {
		t.Errorf("期望 ErrInvalidDateTime，实际=%v", err)
	}
}

// ── 偏移与 DST 测试 ──

func TestTimezoneService_GetTimezoneOffset(t *testing.T) {
	svc := setupTestTimezoneService()

	winter, err := svc.GetTimezoneOffset("America/New_York", "2025-01-15")
	if err != nil {
		t.Fatalf("GetTimezoneOffset 应成功: %v", err)
	}
	if winter.OffsetMinutes != -300 {
		t.Errorf("期望冬季偏移=-300，实际=%d", winter.OffsetMinutes)
	}
	if winter.IsDST {
		t.Error("一月不应处于夏令时")
	}

	summer, err := svc.GetTimezoneOffset("America/New_York", "2025-07-15")
	if err != nil {
		t.Fatalf("GetTimezoneOffset 应成功: %v", err)
	}
	if summer.OffsetMinutes != -240 {
		t.Errorf("期望夏季偏移=-240，实际=%d", summer.OffsetMinutes)
	}
	if !summer.IsDST {
		t.Error("七月应处于夏令时")
	}
}

func TestTimezoneService_IsInDST(t *testing.T) {
	svc := setupTestTimezoneService()

	inDST, err := svc.IsInDST("2025-07-15", "12:00:00", "America/New_York")
	if err != nil {
		t.Fatalf("IsInDST 应成功: %v", err)
	}
	if !inDST {
		t.Error("期望七月正午处于夏令时")
	}

	inDST, err = svc.IsInDST("2025-01-15", "12:00:00", "America/New_York")
	if err != nil {
		t.Fatalf("IsInDST 应成功: %v", err)
	}
	if inDST {
		t.Error("期望一月正午不处于夏令时")
	}
}

// ── 时长计算测试 ──

func TestTimezoneService_CalculateDuration(t *testing.T) {
	svc := setupTestTimezoneService()

	result, err := svc.CalculateDuration(&dto.DurationRequest{
		StartDate: "2025-01-15", StartTime: "09:00:00",
		EndDate: "2025-01-15", EndTime: "17:30:00",
		Timezone: "Asia/Shanghai",
	})
	if err != nil {
		t.Fatalf("CalculateDuration 应成功: %v", err)
	}
	if result.Hours != 8 || result.Minutes != 30 || result.TotalMinutes != 510 {
		t.Errorf("期望 8h30m(510)，实际=%dh%dm(%d)", result.Hours, result.Minutes, result.TotalMinutes)
	}
}

func TestTimezoneService_CalculateDuration_SpansMidnight(t *testing.T) {
	svc := setupTestTimezoneService()

	result, err := svc.CalculateDuration(&dto.DurationRequest{
		StartDate: "2025-01-15", StartTime: "22:00:00",
		EndDate: "2025-01-16", EndTime: "02:00:00",
		Timezone: "Asia/Shanghai",
	})
	if err != nil {
		t.Fatalf("CalculateDuration 应成功: %v", err)
	}
	if result.TotalMinutes != 240 {
		t.Errorf("跨午夜期望 240 分钟，实际=%d", result.TotalMinutes)
	}
}

func TestTimezoneService_CalculateDuration_MultiDay(t *testing.T) {
	svc := setupTestTimezoneService()

	result, err := svc.CalculateDuration(&dto.DurationRequest{
		StartDate: "2025-01-15", StartTime: "10:00:00",
		EndDate: "2025-01-17", EndTime: "10:00:00",
		Timezone: "UTC",
	})
	if err != nil {
		t.Fatalf("CalculateDuration 应成功: %v", err)
	}
	if result.Hours != 48 || result.Minutes != 0 || result.TotalMinutes != 48*60 {
		t.Errorf("跨两天期望 48h，实际=%dh%dm(%d)", result.Hours, result.Minutes, result.TotalMinutes)
	}
}

func TestTimezoneService_CalculateDuration_AcrossDSTTransition(t *testing.T) {
	svc := setupTestTimezoneService()

	// 纽约 2025-03-09 02:00 春季跳变，该段墙上 3 小时只流逝 2 小时
	result, err := svc.CalculateDuration(&dto.DurationRequest{
		StartDate: "2025-03-09", StartTime: "01:00:00",
		EndDate: "2025-03-09", EndTime: "04:00:00",
		Timezone: "America/New_York",
	})
	if err != nil {
		t.Fatalf("CalculateDuration 应成功: %v", err)
	}
	if result.TotalMinutes != 120 {
		t.Errorf("DST 跳变区间期望 120 分钟，实际=%d", result.TotalMinutes)
	}
}

func TestTimezoneService_CalculateDuration_EndBeforeStart(t *testing.T) {
	svc := setupTestTimezoneService()

	_, err := svc.CalculateDuration(&dto.DurationRequest{
		StartDate: "2025-01-16", StartTime: "10:00:00",
		EndDate: "2025-01-15", EndTime: "10:00:00",
		Timezone: "UTC",
	})
	if !errors.Is(err, ErrInvalidDateTime) {
		t.Errorf("结束早于开始应返回 ErrInvalidDateTime，实际=%v", err)
	}
}

// ── 格式化测试 ──

func TestTimezoneService_FormatDateTime(t *testing.T) {
	svc := setupTestTimezoneService()

	formatted, err := svc.FormatDateTime(&dto.FormatDateTimeRequest{
		Date:     "2025-01-15",
		Time:     strPtr("12:00:00"),
		Timezone: "UTC",
		Layout:   "2006-01-02 15:04",
	})
	if err != nil {
		t.Fatalf("FormatDateTime 应成功: %v", err)
	}
	if formatted != "2025-01-15 12:00" {
		t.Errorf("期望=2025-01-15 12:00，实际=%s", formatted)
	}

	// 全天事件默认仅格式化日期
	formatted, err = svc.FormatDateTime(&dto.FormatDateTimeRequest{
		Date:     "2025-01-15",
		Timezone: "Asia/Shanghai",
	})
	if err != nil {
		t.Fatalf("FormatDateTime 应成功: %v", err)
	}
	if formatted != "2025-01-15" {
		t.Errorf("期望=2025-01-15，实际=%s", formatted)
	}
}

func TestTimezoneService_GetCurrentTime_InvalidTimezone(t *testing.T) {
	svc := setupTestTimezoneService()

	if _, err := svc.GetCurrentTime("Not/AZone"); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("期望 ErrInvalidTimezone，实际=%v", err)
	}
}
