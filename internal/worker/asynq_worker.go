package worker

import (
	"context"
	"encoding/json"

	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/provider"
	"github.com/vcaremart/offerlink/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOTPDelivery, c.handleOTPDelivery)
	mux.HandleFunc(queue.TaskLedgerSync, c.handleLedgerSync)
	mux.HandleFunc(queue.TaskOfferStatuses, c.handleOfferStatusSync)
}

func (c *Consumer) handleOTPDelivery(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_otp_delivery_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OTPDeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_otp_delivery_unmarshal_failed", "error", err)
		return err
	}
	if payload.Phone == "" || payload.Code == "" {
		logger.Debugw("worker_otp_delivery_skip_invalid_payload", "phone", payload.Phone)
		return nil
	}
	if c.WhatsAppSender == nil || !c.WhatsAppSender.Enabled() {
		logger.Warnw("worker_otp_delivery_skip_sender_disabled", "phone", payload.Phone)
		return nil
	}
	if err := c.WhatsAppSender.SendOTP(ctx, payload.Phone, payload.Name, payload.Code); err != nil {
		logger.Warnw("worker_otp_delivery_failed", "phone", payload.Phone, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleLedgerSync(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_ledger_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LedgerSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_ledger_sync_unmarshal_failed", "error", err)
		return err
	}
	if c.AccountSyncService == nil {
		logger.Warnw("worker_ledger_sync_skip_service_nil")
		return nil
	}
	result, err := c.AccountSyncService.SyncShops()
	if err != nil {
		logger.Warnw("worker_ledger_sync_failed", "error", err)
		return err
	}
	logger.Infow("worker_ledger_sync_done",
		"created", result.Created,
		"skipped", result.Skipped,
		"missing_client_id", result.MissingClientID,
	)
	return nil
}

func (c *Consumer) handleOfferStatusSync(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_offer_status_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.OfferSyncService == nil {
		logger.Warnw("worker_offer_status_sync_skip_service_nil")
		return nil
	}
	result, err := c.OfferSyncService.Synchronize()
	if err != nil {
		logger.Warnw("worker_offer_status_sync_failed", "error", err)
		return err
	}
	if result.Total() > 0 {
		logger.Infow("worker_offer_status_sync_done",
			"expired", result.Expired,
			"scheduled_by_date", result.ScheduledByDate,
			"scheduled_by_time", result.ScheduledByTime,
			"inactive_by_time", result.InactiveByTime,
			"activated", result.Activated,
		)
	}
	return nil
}
