package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// DateOnly 日历日期类型（无时间部分），JSON 与数据库统一使用 2006-01-02 格式
type DateOnly struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDateOnly 创建日历日期
func NewDateOnly(year int, month time.Month, day int) DateOnly {
	return DateOnly{Year: year, Month: month, Day: day}
}

// DateOf 从时刻提取所在时区的日历日期
func DateOf(t time.Time) DateOnly {
	year, month, day := t.Date()
	return DateOnly{Year: year, Month: month, Day: day}
}

// ParseDateOnly 解析 2006-01-02 格式日期
func ParseDateOnly(s string) (DateOnly, error) {
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return DateOnly{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero 判断是否为零值
func (d DateOnly) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before 判断是否早于另一日期
func (d DateOnly) Before(other DateOnly) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After 判断是否晚于另一日期
func (d DateOnly) After(other DateOnly) bool {
	return other.Before(d)
}

// Equal 判断是否同一天
func (d DateOnly) Equal(other DateOnly) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// String 返回 2006-01-02 格式
func (d DateOnly) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON 输出 2006-01-02 格式字符串
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 解析 2006-01-02 格式字符串
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = DateOnly{}
		return nil
	}
	parsed, err := ParseDateOnly(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType 数据库列类型
func (DateOnly) GormDataType() string {
	return "date"
}

// Value 用于数据库写入
func (d DateOnly) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan 用于数据库读取
func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = DateOnly{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DateOnly", value)
	}
}

func (d *DateOnly) scanString(s string) error {
	if s == "" {
		*d = DateOnly{}
		return nil
	}
	if len(s) > len(dateOnlyLayout) {
		s = s[:len(dateOnlyLayout)]
	}
	parsed, err := ParseDateOnly(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
