package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/vcaremart/offerlink/internal/provider"
	"github.com/vcaremart/offerlink/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleOTPDeliveryInvalidJSON(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOTPDelivery, []byte("not-json"))

	if err := consumer.handleOTPDelivery(context.Background(), task); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestHandleOTPDeliverySkipsEmptyPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	payload, err := json.Marshal(queue.OTPDeliveryPayload{})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	task := asynq.NewTask(queue.TaskOTPDelivery, payload)

	if err := consumer.handleOTPDelivery(context.Background(), task); err != nil {
		t.Fatalf("expected empty payload to be skipped, got %v", err)
	}
}

func TestHandleOTPDeliverySkipsDisabledSender(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	payload, err := json.Marshal(queue.OTPDeliveryPayload{Phone: "9876543210", Code: "123456"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	task := asynq.NewTask(queue.TaskOTPDelivery, payload)

	if err := consumer.handleOTPDelivery(context.Background(), task); err != nil {
		t.Fatalf("expected disabled sender to be skipped, got %v", err)
	}
}

func TestHandleOfferStatusSyncNilService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOfferStatuses, nil)

	if err := consumer.handleOfferStatusSync(context.Background(), task); err != nil {
		t.Fatalf("expected nil service to be skipped, got %v", err)
	}
}
