package service

import (
	"testing"
	"time"

	"chrono-union/backend/internal/model"
)

func expectDates(t *testing.T, got []time.Time, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("期望 %d 个日期，实际=%d 个: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("第 %d 个日期期望=%s，实际=%s",
				i, want[i].Format("2006-01-02"), got[i].Format("2006-01-02"))
		}
	}
}

// ── WEEKLY 展开测试 ──

func TestExpandPattern_Weekly_ByDay(t *testing.T) {
	// 2025-01-07 为周二；每周二、周四，展开 4 周
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Interval:  1,
		ByDay:     model.IntArray{2, 4},
		StartDate: dateAt(2025, 1, 7),
	}

	got := ExpandPattern(rule, dateAt(2025, 2, 3))
	expectDates(t, got,
		dateAt(2025, 1, 7), dateAt(2025, 1, 9),
		dateAt(2025, 1, 14), dateAt(2025, 1, 16),
		dateAt(2025, 1, 21), dateAt(2025, 1, 23),
		dateAt(2025, 1, 28), dateAt(2025, 1, 30),
	)
}

func TestExpandPattern_Weekly_Deterministic(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Interval:  1,
		ByDay:     model.IntArray{2, 4},
		StartDate: dateAt(2025, 1, 7),
	}

	first := ExpandPattern(rule, dateAt(2025, 2, 3))
	second := ExpandPattern(rule, dateAt(2025, 2, 3))
	expectDates(t, second, first...)
}

func TestExpandPattern_Weekly_StartWeekdayNotInByDay(t *testing.T) {
	// 规则从周一开始但只选周二，首个发生日应为次日的周二
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Interval:  1,
		ByDay:     model.IntArray{2},
		StartDate: dateAt(2025, 1, 6),
	}

	got := ExpandPattern(rule, dateAt(2025, 1, 20))
	expectDates(t, got,
		dateAt(2025, 1, 7), dateAt(2025, 1, 14),
	)
}

func TestExpandPattern_Weekly_IntervalTwo(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Interval:  2,
		ByDay:     model.IntArray{2},
		StartDate: dateAt(2025, 1, 7),
	}

	got := ExpandPattern(rule, dateAt(2025, 2, 4))
	expectDates(t, got,
		dateAt(2025, 1, 7), dateAt(2025, 1, 21), dateAt(2025, 2, 4),
	)
}

// ── DAILY 展开测试 ──

func TestExpandPattern_Daily_IntervalThree(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyDaily,
		Interval:  3,
		StartDate: dateAt(2025, 1, 1),
	}

	got := ExpandPattern(rule, dateAt(2025, 1, 10))
	expectDates(t, got,
		dateAt(2025, 1, 1), dateAt(2025, 1, 4),
		dateAt(2025, 1, 7), dateAt(2025, 1, 10),
	)
}

func TestExpandPattern_Daily_CountCapWithExceptions(t *testing.T) {
	// Count=5，例外日期跳过且不消耗配额
	rule := &model.RecurrenceRule{
		Frequency:      model.FrequencyDaily,
		Interval:       1,
		StartDate:      dateAt(2025, 1, 1),
		Count:          intPtr(5),
		ExceptionDates: model.DateArray{dateAt(2025, 1, 2)},
	}

	got := ExpandPattern(rule, dateAt(2025, 12, 31))
	expectDates(t, got,
		dateAt(2025, 1, 1), dateAt(2025, 1, 3),
		dateAt(2025, 1, 4), dateAt(2025, 1, 5),
		dateAt(2025, 1, 6),
	)
}

func TestExpandPattern_Daily_RuleEndDateBounds(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyDaily,
		Interval:  1,
		StartDate: dateAt(2025, 1, 1),
		EndDate:   timePtr(dateAt(2025, 1, 5)),
	}

	got := ExpandPattern(rule, dateAt(2025, 1, 31))
	if len(got) != 5 {
		t.Fatalf("期望 5 个日期（受规则 EndDate 约束），实际=%d", len(got))
	}
	if !got[4].Equal(dateAt(2025, 1, 5)) {
		t.Errorf("期望最后日期=2025-01-05，实际=%s", got[4].Format("2006-01-02"))
	}
}

func TestExpandPattern_Daily_DefaultCap(t *testing.T) {
	// 无 Count 且无 EndDate 的规则受默认上限约束
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyDaily,
		Interval:  1,
		StartDate: dateAt(2020, 1, 1),
	}

	got := ExpandPattern(rule, dateAt(2025, 12, 31))
	if len(got) != defaultExpansionCap {
		t.Errorf("期望默认上限=%d，实际=%d", defaultExpansionCap, len(got))
	}
}

// ── MONTHLY 展开测试 ──

func TestExpandPattern_Monthly_ByMonthDay(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyMonthly,
		Interval:   1,
		ByMonthDay: model.IntArray{15},
		StartDate:  dateAt(2025, 1, 15),
	}

	got := ExpandPattern(rule, dateAt(2025, 4, 30))
	expectDates(t, got,
		dateAt(2025, 1, 15), dateAt(2025, 2, 15),
		dateAt(2025, 3, 15), dateAt(2025, 4, 15),
	)
}

func TestExpandPattern_Monthly_LastDayOfMonth(t *testing.T) {
	// -1 为当月最后一天，二月自动落在 28 日
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyMonthly,
		Interval:   1,
		ByMonthDay: model.IntArray{-1},
		StartDate:  dateAt(2025, 1, 1),
	}

	got := ExpandPattern(rule, dateAt(2025, 3, 31))
	expectDates(t, got,
		dateAt(2025, 1, 31), dateAt(2025, 2, 28), dateAt(2025, 3, 31),
	)
}

func TestExpandPattern_Monthly_NthWeekday(t *testing.T) {
	// 每月第 2 个周二
	rule := &model.RecurrenceRule{
		Frequency:          model.FrequencyMonthly,
		Interval:           1,
		ByDayOfWeekInMonth: model.WeekdayOfMonthList{{Week: 2, Day: 2}},
		StartDate:          dateAt(2025, 1, 1),
	}

	got := ExpandPattern(rule, dateAt(2025, 3, 31))
	expectDates(t, got,
		dateAt(2025, 1, 14), dateAt(2025, 2, 11), dateAt(2025, 3, 11),
	)
}

// ── YEARLY 展开测试 ──

func TestExpandPattern_Yearly(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyYearly,
		Interval:  1,
		StartDate: dateAt(2025, 5, 10),
	}

	got := ExpandPattern(rule, dateAt(2027, 12, 31))
	expectDates(t, got,
		dateAt(2025, 5, 10), dateAt(2026, 5, 10), dateAt(2027, 5, 10),
	)
}

func TestExpandPattern_Yearly_ByMonth(t *testing.T) {
	// 每年 3 月与 9 月的 1 日
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyYearly,
		Interval:  1,
		ByMonth:   model.IntArray{3, 9},
		StartDate: dateAt(2025, 3, 1),
	}

	got := ExpandPattern(rule, dateAt(2026, 12, 31))
	expectDates(t, got,
		dateAt(2025, 3, 1), dateAt(2025, 9, 1),
		dateAt(2026, 3, 1), dateAt(2026, 9, 1),
	)
}

func timePtr(t time.Time) *time.Time { return &t }
