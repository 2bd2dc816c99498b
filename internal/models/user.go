package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（管理员与店主共用）
type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`                 // 主键
	Username      string         `gorm:"uniqueIndex;not null" json:"username"` // 登录名
	Email         string         `gorm:"default:''" json:"email"`              // 邮箱
	PasswordHash  string         `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	Phone         string         `gorm:"index;default:''" json:"phone"`        // 手机号（10 位）
	Role          string         `gorm:"default:'user'" json:"role"`           // 角色 admin / user
	BusinessName  string         `gorm:"default:''" json:"business_name"`      // 商号
	ShopName      string         `gorm:"default:''" json:"shop_name"`          // 店铺名
	Location      string         `gorm:"default:''" json:"location"`           // 所在地
	ShopLogo      string         `gorm:"default:''" json:"shop_logo"`          // 店铺 Logo URL
	Status        string         `gorm:"default:'active'" json:"status"`       // 账号状态
	ClientID      string         `gorm:"index;default:''" json:"client_id"`    // 账务系统客户号
	Amount        Money          `gorm:"type:decimal(10,2)" json:"amount"`     // 套餐金额
	ValidityDays  int            `gorm:"default:0" json:"validity_days"`       // 套餐天数
	ValidityStart *DateOnly      `json:"validity_start"`                       // 套餐起始日
	ValidityEnd   *DateOnly      `json:"validity_end"`                         // 套餐截止日
	LastLoginAt   *time.Time     `json:"last_login_at"`                        // 最后登录时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
