package constants

// 用户角色常量
const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 门店状态常量
const (
	BranchStatusActive   = "active"
	BranchStatusInactive = "inactive"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneAdminLogin = "admin_login"
)

// 队列常量
const (
	QueueDefault      = "default"
	QueueCritical     = "critical"
	TaskOTPDelivery   = "otp:deliver"
	TaskLedgerSync    = "ledger:sync_shops"
	TaskOfferStatuses = "offer:sync_statuses"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ol"
)
