package service

import (
	"time"

	"chrono-union/backend/internal/model"
)

// 重复规则展开。纯函数实现，同一规则多次展开结果一致。

// 未指定 Count 时的展开上限，防止无终止规则撑爆物化窗口
const defaultExpansionCap = 1000

// ExpandPattern 把重复规则展开为规则起始日到 horizonEnd 之间的全部发生日期。
// 规则自带 EndDate 时取两者较早者为界；ExceptionDates 中的日期跳过且不消耗
// Count 配额。返回日期均为 UTC 零点，升序。
func ExpandPattern(rule *model.RecurrenceRule, horizonEnd time.Time) []time.Time {
	start := model.DateOnly(rule.StartDate)
	end := model.DateOnly(horizonEnd)
	if rule.EndDate != nil {
		if ruleEnd := model.DateOnly(*rule.EndDate); ruleEnd.Before(end) {
			end = ruleEnd
		}
	}

	limit := defaultExpansionCap
	if rule.Count != nil && *rule.Count > 0 && *rule.Count < limit {
		limit = *rule.Count
	}
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var dates []time.Time
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		if !onInterval(rule.Frequency, interval, start, cursor) {
			continue
		}
		if !matchesPattern(rule, start, cursor) {
			continue
		}
		if rule.ExceptionDates.Contains(cursor) {
			continue
		}
		dates = append(dates, cursor)
		if len(dates) >= limit {
			break
		}
	}
	return dates
}

// onInterval 判断 cursor 所在的天/周/月/年与规则起始是否间隔对齐
func onInterval(frequency string, interval int, start, cursor time.Time) bool {
	switch frequency {
	case model.FrequencyDaily:
		return daysBetween(start, cursor)%interval == 0
	case model.FrequencyWeekly:
		weeks := daysBetween(weekStart(start), weekStart(cursor)) / 7
		return weeks%interval == 0
	case model.FrequencyMonthly:
		return monthsBetween(start, cursor)%interval == 0
	case model.FrequencyYearly:
		return (cursor.Year()-start.Year())%interval == 0
	default:
		return false
	}
}

// matchesPattern 判断 cursor 是否命中频率对应的日期过滤器
func matchesPattern(rule *model.RecurrenceRule, start, cursor time.Time) bool {
	switch rule.Frequency {
	case model.FrequencyDaily:
		return true

	case model.FrequencyWeekly:
		if len(rule.ByDay) == 0 {
			return cursor.Weekday() == start.Weekday()
		}
		return rule.ByDay.Contains(int(cursor.Weekday()))

	case model.FrequencyMonthly:
		if len(rule.ByMonthDay) > 0 {
			return matchesMonthDay(rule.ByMonthDay, cursor)
		}
		if len(rule.ByDayOfWeekInMonth) > 0 {
			week := (cursor.Day()-1)/7 + 1
			return rule.ByDayOfWeekInMonth.Contains(week, int(cursor.Weekday()))
		}
		return cursor.Day() == start.Day()

	case model.FrequencyYearly:
		if len(rule.ByMonth) > 0 {
			return rule.ByMonth.Contains(int(cursor.Month())) && cursor.Day() == start.Day()
		}
		return cursor.Month() == start.Month() && cursor.Day() == start.Day()

	default:
		return false
	}
}

// matchesMonthDay 支持负数表示从月末倒数，-1 为当月最后一天
func matchesMonthDay(byMonthDay model.IntArray, cursor time.Time) bool {
	last := daysInMonth(cursor.Year(), cursor.Month())
	for _, d := range byMonthDay {
		if d > 0 && cursor.Day() == d {
			return true
		}
		if d < 0 && cursor.Day() == last+d+1 {
			return true
		}
	}
	return false
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// weekStart 返回日期所在周的周日
func weekStart(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
