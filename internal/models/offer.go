package models

import (
	"time"

	"gorm.io/gorm"
)

// OfferStatus 存储状态（三值），由同步流程按当前时刻重算
type OfferStatus string

const (
	OfferStatusActive    OfferStatus = "active"    // 生效中
	OfferStatusInactive  OfferStatus = "inactive"  // 停用（含人工下线与已过期）
	OfferStatusScheduled OfferStatus = "scheduled" // 未到生效时间
)

// Valid 判断是否为合法存储状态
func (s OfferStatus) Valid() bool {
	switch s {
	case OfferStatusActive, OfferStatusInactive, OfferStatusScheduled:
		return true
	}
	return false
}

// EffectiveStatus 实时计算状态（四值），只用于展示，从不落库
type EffectiveStatus string

const (
	EffectiveActive    EffectiveStatus = "active"
	EffectiveInactive  EffectiveStatus = "inactive"
	EffectiveScheduled EffectiveStatus = "scheduled"
	EffectiveExpired   EffectiveStatus = "expired"
)

// Stored 映射为存储状态；expired 落库时归入 inactive
func (s EffectiveStatus) Stored() OfferStatus {
	if s == EffectiveExpired {
		return OfferStatusInactive
	}
	return OfferStatus(s)
}

// Offer 优惠表
type Offer struct {
	ID             uint           `gorm:"primarykey" json:"id"`                             // 主键
	UserID         uint           `gorm:"index;not null" json:"user_id"`                    // 创建者（管理员）
	Title          string         `gorm:"not null" json:"title"`                            // 标题
	Description    string         `gorm:"default:''" json:"description"`                    // 描述
	ValidFrom      DateOnly       `gorm:"index;not null" json:"valid_from"`                 // 生效起始日
	ValidTo        DateOnly       `gorm:"index;not null" json:"valid_to"`                   // 生效截止日（含当日）
	DailyStartTime *TimeOfDay     `json:"daily_start_time"`                                 // 每日窗口开始（可空，与结束成对）
	DailyEndTime   *TimeOfDay     `json:"daily_end_time"`                                   // 每日窗口结束（可空）
	Status         OfferStatus    `gorm:"index;default:'active'" json:"status"`             // 存储状态
	Media          []OfferMedia   `gorm:"foreignKey:OfferID" json:"media,omitempty"`        // 附件（有序）
	Branches       []Branch       `gorm:"many2many:offer_branches" json:"branches,omitempty"` // 投放门店
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间
}

// TableName 指定表名
func (Offer) TableName() string {
	return "offers"
}

// HasDailyWindow 是否配置了每日生效窗口
func (o *Offer) HasDailyWindow() bool {
	return o.DailyStartTime != nil && o.DailyEndTime != nil
}

// OfferMedia 优惠附件表
type OfferMedia struct {
	ID        uint      `gorm:"primarykey" json:"id"`           // 主键
	OfferID   uint      `gorm:"index;not null" json:"offer_id"` // 所属优惠
	FileURL   string    `gorm:"not null" json:"file_url"`       // 文件地址
	FileType  string    `gorm:"default:''" json:"file_type"`    // 文件类型 image / video
	Caption   string    `gorm:"default:''" json:"caption"`      // 说明文字
	SortOrder int       `gorm:"default:0" json:"sort_order"`    // 展示顺序
	CreatedAt time.Time `json:"created_at"`                     // 创建时间
}

// TableName 指定表名
func (OfferMedia) TableName() string {
	return "offer_media"
}
