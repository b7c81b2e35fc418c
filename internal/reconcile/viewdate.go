package reconcile

import (
	"database/sql"
	"strings"
	"time"
)

// ISOLayout view_date 的规范文本形式（不带时区，按业务时区解释）
const ISOLayout = "2006-01-02T15:04:05"

// DisplayLayout 表格展示格式
const DisplayLayout = "02/01/2006 15:04"

var viewDateLayouts = []string{
	ISOLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateTimeInput 表单中分开的日期、时间控件
type DateTimeInput struct {
	Date string `json:"date"` // 2006-01-02
	Time string `json:"time"` // 15:04，可为空
}

// Combine 合并日期与时间：只有日期时取午夜，日期为空时返回空串（清空）
func (d DateTimeInput) Combine(loc *time.Location) (string, error) {
	date := strings.TrimSpace(d.Date)
	if date == "" {
		return "", nil
	}
	clock := strings.TrimSpace(d.Time)
	if clock == "" {
		clock = "00:00"
	}
	if len(clock) == len("15:04") {
		clock += ":00"
	}
	t, err := time.ParseInLocation(ISOLayout, date+"T"+clock, loc)
	if err != nil {
		return "", err
	}
	return t.Format(ISOLayout), nil
}

// ParseViewDate 解析提交的 view_date 文本；空串表示清空
func ParseViewDate(s string, loc *time.Location) (sql.NullTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullTime{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return sql.NullTime{Time: t.In(loc), Valid: true}, nil
	}
	var lastErr error
	for _, layout := range viewDateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return sql.NullTime{Time: t, Valid: true}, nil
		}
		lastErr = err
	}
	return sql.NullTime{}, lastErr
}

// FormatViewDate view_date 的规范文本，NULL 为空串
func FormatViewDate(v sql.NullTime, loc *time.Location) string {
	if !v.Valid {
		return ""
	}
	return v.Time.In(loc).Format(ISOLayout)
}

// DisplayTime 展示用时间（dd/mm/yyyy HH:MM）
func DisplayTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(DisplayLayout)
}
