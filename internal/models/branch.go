package models

import (
	"time"

	"gorm.io/gorm"
)

// Branch 门店表
type Branch struct {
	ID         uint           `gorm:"primarykey" json:"id"`                           // 主键
	UserID     uint           `gorm:"index;not null" json:"user_id"`                  // 所属店主
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`        // 所属店主（预加载用）
	BranchName string         `gorm:"not null" json:"branch_name"`                    // 门店名
	BranchCode string         `gorm:"index;default:''" json:"branch_code"`            // 门店编码
	Address    string         `gorm:"default:''" json:"address"`                      // 地址
	Location   string         `gorm:"index;default:''" json:"location"`               // 所在区域
	City       string         `gorm:"index;default:''" json:"city"`                   // 城市
	Pincode    string         `gorm:"default:''" json:"pincode"`                      // 邮编
	Phone      string         `gorm:"default:''" json:"phone"`                        // 联系电话
	Status     string         `gorm:"index;default:'active'" json:"status"`           // 门店状态 active / inactive
	LinkToken  string         `gorm:"uniqueIndex;not null" json:"link_token"`         // 公开扫码链接 token
	Offers     []Offer        `gorm:"many2many:offer_branches" json:"offers,omitempty"` // 挂载的优惠
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                     // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (Branch) TableName() string {
	return "branches"
}
