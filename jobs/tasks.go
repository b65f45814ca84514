package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeBillingSync reconciles subscription statuses with the payments
	// provider.
	TaskTypeBillingSync = "billing:sync_subscriptions"
	// TaskTypeCatalogWarmup pre-fills the first-page catalogue list caches.
	TaskTypeCatalogWarmup = "catalog:warmup"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// TODO: deliver via the transactional mail provider once credentials land.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}

// NewBillingSyncTask constructs a subscription-sync task.
func NewBillingSyncTask() *asynq.Task {
	return asynq.NewTask(TaskTypeBillingSync, nil)
}

// NewCatalogWarmupTask constructs a catalogue warmup task.
func NewCatalogWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeCatalogWarmup, nil)
}
