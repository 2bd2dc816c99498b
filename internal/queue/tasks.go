package queue

import (
	"encoding/json"

	"github.com/vcaremart/offerlink/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOTPDelivery 验证码下发任务
	TaskOTPDelivery = constants.TaskOTPDelivery
	// TaskLedgerSync 账套门店同步任务
	TaskLedgerSync = constants.TaskLedgerSync
	// TaskOfferStatuses 优惠状态批量同步任务
	TaskOfferStatuses = constants.TaskOfferStatuses
)

// OTPDeliveryPayload 验证码下发任务载荷
type OTPDeliveryPayload struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
	Name  string `json:"name"`
}

// LedgerSyncPayload 账套门店同步任务载荷
type LedgerSyncPayload struct {
	ClientID string `json:"client_id"`
}

// OfferStatusSyncPayload 优惠状态同步任务载荷
type OfferStatusSyncPayload struct{}

// NewOTPDeliveryTask 创建验证码下发任务
func NewOTPDeliveryTask(payload OTPDeliveryPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOTPDelivery, body), nil
}

// NewLedgerSyncTask 创建账套门店同步任务
func NewLedgerSyncTask(payload LedgerSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerSync, body), nil
}

// NewOfferStatusSyncTask 创建优惠状态同步任务
func NewOfferStatusSyncTask(payload OfferStatusSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfferStatuses, body), nil
}
