package clock

import (
	"fmt"
	"time"
)

// Clock 时钟提供者。所有"当前时间"都经由它获取，便于测试注入固定时刻。
type Clock interface {
	Now() time.Time
}

// Business 营业时区时钟。返回的时间统一落在配置的城市时区内，
// 秒与纳秒被截断，生效窗口以分钟粒度比较。
type Business struct {
	loc *time.Location
}

// NewBusiness 按 IANA 时区名创建营业时钟
func NewBusiness(timezone string) (*Business, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q failed: %w", timezone, err)
	}
	return &Business{loc: loc}, nil
}

// Now 返回营业时区的当前时刻（截断到分钟）
func (c *Business) Now() time.Time {
	return time.Now().In(c.loc).Truncate(time.Minute)
}

// Location 返回营业时区
func (c *Business) Location() *time.Location {
	return c.loc
}

// Fixed 固定时钟，测试用
type Fixed struct {
	At time.Time
}

// Now 返回固定时刻（截断到分钟）
func (c Fixed) Now() time.Time {
	return c.At.Truncate(time.Minute)
}
