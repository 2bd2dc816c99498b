package models

import "time"

// Customer 账务系统客户表（acc_master 同步数据，只读为主）
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	Code      string    `gorm:"index;not null" json:"code"`        // 客户编码
	Name      string    `gorm:"not null" json:"name"`              // 客户名
	Place     string    `gorm:"index;default:''" json:"place"`     // 所在地
	Phone     string    `gorm:"index;default:''" json:"phone"`     // 联系电话
	Points    string    `gorm:"default:'0'" json:"points"`         // 积分/余额原始值（原样透传，不做格式化）
	ClientID  string    `gorm:"index;default:''" json:"client_id"` // 客户端标识（仅登录校验用）
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}

// LedgerShop 账务系统商铺表（misel 同步数据）
type LedgerShop struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	FirmName  string    `gorm:"index;not null" json:"firm_name"`   // 商号
	Address   string    `gorm:"default:''" json:"address"`         // 地址
	ClientID  string    `gorm:"index;default:''" json:"client_id"` // 客户端标识
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (LedgerShop) TableName() string {
	return "ledger_shops"
}

// Invoice 账务系统发票表（acc_inv_mast 同步数据）
type Invoice struct {
	ID         uint      `gorm:"primarykey" json:"id"`                  // 主键
	SerialNo   string    `gorm:"index;not null" json:"serial_no"`       // 发票流水号
	CustomerID string    `gorm:"index;not null" json:"customer_id"`     // 客户编码（对应 Customer.Code）
	InvoiceAt  *DateOnly `gorm:"index" json:"invoice_at"`               // 开票日期
	NetTotal   Money     `gorm:"type:decimal(12,2)" json:"net_total"`   // 净额
	ClientID   string    `gorm:"index;default:''" json:"client_id"`     // 客户端标识
	CreatedAt  time.Time `json:"created_at"`                            // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                            // 更新时间
}

// TableName 指定表名
func (Invoice) TableName() string {
	return "invoices"
}
