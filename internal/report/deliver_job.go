package report

import (
	"context"
	"fmt"

	drepo "NewsPull/internal/domain/repository"
	"NewsPull/pkg/queue"
)

// DeliverPayload is the queued message carrying one rendered report.
type DeliverPayload struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// MsgTypeDeliver routes delivery messages on the queue.
const MsgTypeDeliver = "report_deliver"

// DeliverJob sends rendered reports from the delivery queue.
type DeliverJob struct {
	notifier drepo.Notifier
}

func NewDeliverJob(notifier drepo.Notifier) *DeliverJob {
	return &DeliverJob{notifier: notifier}
}

func (j *DeliverJob) Name() string { return "report_deliver_job" }

func (j *DeliverJob) Type() string { return MsgTypeDeliver }

func (j *DeliverJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[DeliverPayload](payload)
	if err != nil {
		return fmt.Errorf("parse deliver payload: %w", err)
	}
	if err := j.notifier.Deliver(ctx, p.Subject, p.HTML); err != nil {
		return fmt.Errorf("deliver report: %w", err)
	}
	return nil
}

var _ queue.Job = (*DeliverJob)(nil)
