package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── PostgreSQL 数组 / JSONB 自定义类型 ──

// IntArray 对应 PostgreSQL INT[] 类型，实现 GORM Scanner/Valuer 接口。
type IntArray []int

// Scan 将 PostgreSQL 返回的 {1,2,3} 文本解析为 []int。
func (a *IntArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("IntArray.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = IntArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(IntArray, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("IntArray.Scan: invalid element %q: %w", p, err)
		}
		arr = append(arr, n)
	}
	*a = arr
	return nil
}

// Value 将 []int 序列化为 PostgreSQL {1,2,3} 文本。
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.Itoa(n)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains 判断数组是否包含 n
func (a IntArray) Contains(n int) bool {
	for _, v := range a {
		if v == n {
			return true
		}
	}
	return false
}

// DateArray 对应 PostgreSQL DATE[] 类型，元素格式 2006-01-02。
type DateArray []time.Time

// Scan 将 {2025-01-02,2025-01-09} 文本解析为日期切片。
func (a *DateArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("DateArray.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = DateArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(DateArray, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		d, err := time.Parse("2006-01-02", p)
		if err != nil {
			return fmt.Errorf("DateArray.Scan: invalid element %q: %w", p, err)
		}
		arr = append(arr, d)
	}
	*a = arr
	return nil
}

// Value 将日期切片序列化为 PostgreSQL {2025-01-02,...} 文本。
func (a DateArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, d := range a {
		parts[i] = d.Format("2006-01-02")
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains 判断数组是否包含指定日期（仅比较年月日）
func (a DateArray) Contains(d time.Time) bool {
	for _, v := range a {
		if v.Year() == d.Year() && v.Month() == d.Month() && v.Day() == d.Day() {
			return true
		}
	}
	return false
}

// WeekdayOfMonth 月内第 N 个星期几，如 {Week:2, Day:2} 表示第 2 个周二
type WeekdayOfMonth struct {
	Week int `json:"week"` // 1..5
	Day  int `json:"day"`  // 0=周日 … 6=周六
}

// WeekdayOfMonthList 对应 JSONB 列，实现 GORM Scanner/Valuer 接口。
type WeekdayOfMonthList []WeekdayOfMonth

// Scan 反序列化 JSONB
func (l *WeekdayOfMonthList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("WeekdayOfMonthList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, l)
}

// Value 序列化为 JSONB
func (l WeekdayOfMonthList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Contains 判断列表是否包含 {week, day} 组合
func (l WeekdayOfMonthList) Contains(week, day int) bool {
	for _, v := range l {
		if v.Week == week && v.Day == day {
			return true
		}
	}
	return false
}

// DateOnly 截断为当日零点（UTC），DATE 列统一用此表示
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
