package service

import (
	"time"

	"github.com/vcaremart/offerlink/internal/models"
)

// ComputeEffectiveStatus 按当前时刻实时计算优惠的展示状态。
// 纯函数，不读写任何外部状态；规则按序生效，命中即返回：
//
//  1. 存储状态为 inactive（人工下线）始终为 inactive
//  2. 当日早于生效起始日 → scheduled
//  3. 当日晚于生效截止日 → inactive（日期区间整体结束）
//  4. 未配置每日窗口 → active
//  5. 当前时刻早于窗口开始 → scheduled；晚于窗口结束 → expired
//     （expired 只描述当日窗口已收盘，日期区间内次日会重开）；否则 active
//
// 日期与窗口边界均为闭区间，分钟粒度。
func ComputeEffectiveStatus(offer *models.Offer, now time.Time) models.EffectiveStatus {
	if offer.Status == models.OfferStatusInactive {
		return models.EffectiveInactive
	}

	today := models.DateOf(now)
	if today.Before(offer.ValidFrom) {
		return models.EffectiveScheduled
	}
	if today.After(offer.ValidTo) {
		return models.EffectiveInactive
	}

	if !offer.HasDailyWindow() {
		return models.EffectiveActive
	}

	nowTime := models.TimeOfDayOf(now)
	if nowTime.Before(*offer.DailyStartTime) {
		return models.EffectiveScheduled
	}
	if nowTime.After(*offer.DailyEndTime) {
		return models.EffectiveExpired
	}
	return models.EffectiveActive
}

// IsEffectivelyActive 当前时刻是否实际可见
func IsEffectivelyActive(offer *models.Offer, now time.Time) bool {
	return ComputeEffectiveStatus(offer, now) == models.EffectiveActive
}
