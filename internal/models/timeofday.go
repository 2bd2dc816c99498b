package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04"

// TimeOfDay 一天内的时刻（分钟粒度），JSON 与数据库统一使用 15:04 格式
type TimeOfDay struct {
	Minutes int // 自零点起的分钟数，0..1439
}

// NewTimeOfDay 按时分创建
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Minutes: hour*60 + minute}
}

// TimeOfDayOf 从时刻提取当天分钟数（秒被截断）
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Minutes: t.Hour()*60 + t.Minute()}
}

// ParseTimeOfDay 解析 15:04 格式时刻
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOfDayOf(t), nil
}

// Before 判断是否早于另一时刻
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes < other.Minutes
}

// After 判断是否晚于另一时刻
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Minutes > other.Minutes
}

// String 返回 15:04 格式
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Minutes/60, t.Minutes%60)
}

// MarshalJSON 输出 15:04 格式字符串
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON 解析 15:04 格式字符串
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// GormDataType 数据库列类型。以 HH:MM 文本存储，字典序即时间序
func (TimeOfDay) GormDataType() string {
	return "varchar(5)"
}

// Value 用于数据库写入
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan 用于数据库读取
func (t *TimeOfDay) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = TimeOfDay{}
		return nil
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", value)
	}
}

func (t *TimeOfDay) scanString(s string) error {
	if s == "" {
		*t = TimeOfDay{}
		return nil
	}
	if len(s) > len(timeOfDayLayout) {
		s = s[:len(timeOfDayLayout)]
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
