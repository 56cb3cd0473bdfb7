package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/jobs"
)

const handoverJobType = "handover.notify"

// HandoverEvent records a completed handover.
type HandoverEvent struct {
	BookingID  int64               `json:"bookingId"`
	Transition workflow.Transition `json:"transition"`
	Sender     string              `json:"sender"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// Notification is the message delivered to the receiving role.
type Notification struct {
	BookingID int64           `json:"bookingId"`
	Recipient models.UserRole `json:"recipient"`
	Subject   string          `json:"subject"`
	Body      string          `json:"body"`
}

// NotificationSender delivers notifications. Email delivery lives outside this service.
type NotificationSender interface {
	Send(ctx context.Context, notification Notification) error
}

// LogSender writes notifications to the structured log.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the notification.
func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.logger.Info("handover notification",
		zap.Int64("booking_id", n.BookingID),
		zap.String("recipient", string(n.Recipient)),
		zap.String("subject", n.Subject),
	)
	return nil
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// HandoverNotifier turns handover events into notifications delivered on a background queue.
type HandoverNotifier struct {
	sender     NotificationSender
	metrics    *MetricsService
	logger     *zap.Logger
	maxRetries int
	queue      jobQueue
	owned      *jobs.Queue
}

// NewHandoverNotifier builds the notifier and its worker pool. Start must be called before Notify.
func NewHandoverNotifier(sender NotificationSender, metrics *MetricsService, cfg jobs.QueueConfig) *HandoverNotifier {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	n := &HandoverNotifier{sender: sender, metrics: metrics, logger: cfg.Logger, maxRetries: cfg.MaxRetries}
	n.owned = jobs.NewQueue("handover", n.handle, cfg)
	n.queue = n.owned
	return n
}

// Start launches the workers.
func (n *HandoverNotifier) Start(ctx context.Context) {
	n.owned.Start(ctx)
}

// Stop waits for in-flight notifications.
func (n *HandoverNotifier) Stop() {
	n.owned.Stop()
}

// Notify queues a notification for the event's receiving role. It never blocks.
func (n *HandoverNotifier) Notify(_ context.Context, event HandoverEvent) error {
	return n.queue.Enqueue(jobs.Job{Type: handoverJobType, Payload: event})
}

func (n *HandoverNotifier) handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(HandoverEvent)
	if !ok {
		n.logger.Error("unexpected handover payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		n.metrics.RecordNotification("failed")
		return nil
	}
	if err := n.sender.Send(ctx, notificationFor(event)); err != nil {
		if job.Attempt >= n.maxRetries {
			n.metrics.RecordNotification("failed")
		} else {
			n.metrics.RecordNotification("retried")
		}
		return err
	}
	n.metrics.RecordNotification("sent")
	return nil
}

func notificationFor(event HandoverEvent) Notification {
	return Notification{
		BookingID: event.BookingID,
		Recipient: event.Transition.Receiver,
		Subject:   fmt.Sprintf("HDC licence %d ready for %s", event.BookingID, event.Transition.Receiver),
		Body: fmt.Sprintf("%s sent booking %d to %s (%s) at %s.",
			event.Sender, event.BookingID, event.Transition.Receiver, event.Transition.Name,
			event.OccurredAt.Format(time.RFC3339)),
	}
}
