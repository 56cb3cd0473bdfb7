package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/jobs"
)

type senderStub struct {
	mu       sync.Mutex
	sent     []Notification
	failures int
}

func (s *senderStub) Send(ctx context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *senderStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func handoverEvent(t *testing.T) HandoverEvent {
	t.Helper()
	transition, err := workflow.LookupTransition(workflow.TransitionCaToDm)
	require.NoError(t, err)
	return HandoverEvent{BookingID: 9, Transition: transition, Sender: "ca.user", OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func TestHandoverNotifierDeliversToReceiver(t *testing.T) {
	sender := &senderStub{}
	metrics := NewMetricsService()
	notifier := NewHandoverNotifier(sender, metrics, jobs.QueueConfig{Workers: 1, RetryDelay: time.Millisecond})
	notifier.Start(context.Background())
	defer notifier.Stop()

	require.NoError(t, notifier.Notify(context.Background(), handoverEvent(t)))
	require.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 5*time.Millisecond)

	sender.mu.Lock()
	sent := sender.sent[0]
	sender.mu.Unlock()
	assert.Equal(t, models.RoleDM, sent.Recipient)
	assert.Equal(t, int64(9), sent.BookingID)
	assert.Contains(t, sent.Body, "caToDm")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notifications.WithLabelValues("sent")))
}

func TestHandoverNotifierRetries(t *testing.T) {
	sender := &senderStub{failures: 2}
	metrics := NewMetricsService()
	notifier := NewHandoverNotifier(sender, metrics, jobs.QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: time.Millisecond})
	notifier.Start(context.Background())
	defer notifier.Stop()

	require.NoError(t, notifier.Notify(context.Background(), handoverEvent(t)))
	require.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.notifications.WithLabelValues("retried")))
}

func TestHandoverNotifierRequiresStart(t *testing.T) {
	notifier := NewHandoverNotifier(NewLogSender(nil), nil, jobs.QueueConfig{})
	assert.Error(t, notifier.Notify(context.Background(), handoverEvent(t)))
}
