package messaging

import (
	"context"
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-users-api/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-users-api/pkg/mailer/templates"
)

// Publisher hands a job to the outbound transport (RabbitMQ, redis list).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

var metrics = expvar.NewMap("notifications")

// Stats counts what happened to notices handed to a Dispatcher.
type Stats struct {
	Accepted  int64 `json:"accepted"`
	Dropped   int64 `json:"dropped"`
	Published int64 `json:"published"`
	Failed    int64 `json:"failed"`
}

// Dispatcher delivers creation notices in the background with at-most-once
// semantics. Send never blocks: when the queue is full or the dispatcher is
// closed the notice is dropped and counted.
type Dispatcher struct {
	publisher Publisher
	logger    *logrus.Logger
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan entity.CreationNotice
	done   chan struct{}

	accepted, dropped, published, failed atomic.Int64
}

func NewDispatcher(p Publisher, size int, timeout time.Duration, logger *logrus.Logger) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	d := &Dispatcher{
		publisher: p,
		logger:    logger,
		timeout:   timeout,
		queue:     make(chan entity.CreationNotice, size),
		done:      make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Send(n entity.CreationNotice) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(n, "dispatcher closed")
		return
	}
	select {
	case d.queue <- n:
		d.accepted.Add(1)
		metrics.Add("accepted", 1)
	default:
		d.drop(n, "queue full")
	}
}

// Close stops accepting notices and waits for queued ones to be published
// or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain notifications: %w", ctx.Err())
	}
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Accepted:  d.accepted.Load(),
		Dropped:   d.dropped.Load(),
		Published: d.published.Load(),
		Failed:    d.failed.Load(),
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		d.publish(n)
	}
}

func (d *Dispatcher) publish(n entity.CreationNotice) {
	// the caller's request context is long gone by now
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			d.fail(n, fmt.Errorf("publisher panic: %v", r))
		}
	}()

	if err := d.publisher.PublishJSON(ctx, EmailJobFor(n)); err != nil {
		d.fail(n, err)
		return
	}
	d.published.Add(1)
	metrics.Add("published", 1)
}

func (d *Dispatcher) fail(n entity.CreationNotice, err error) {
	d.failed.Add(1)
	metrics.Add("failed", 1)
	d.logger.WithError(err).WithField("user_id", n.UserID).Error("creation notice not delivered")
}

func (d *Dispatcher) drop(n entity.CreationNotice, reason string) {
	d.dropped.Add(1)
	metrics.Add("dropped", 1)
	d.logger.WithFields(logrus.Fields{"user_id": n.UserID, "reason": reason}).Warn("creation notice dropped")
}

// EmailJobFor maps a creation notice onto the queued email payload.
func EmailJobFor(n entity.CreationNotice) mailer.EmailJob {
	return mailer.EmailJob{
		To:       n.Email,
		Subject:  n.Subject,
		Text:     n.Body,
		Template: mailtpl.AccountCreated,
		Data: map[string]any{
			"UserID":    n.UserID,
			"FirstName": n.FirstName,
		},
	}
}

// LogPublisher only logs jobs. It stands in for a transport when sending
// mail is disabled.
type LogPublisher struct {
	Logger *logrus.Logger
}

func (p LogPublisher) PublishJSON(_ context.Context, body any) error {
	p.Logger.WithField("job", body).Info("mail sending disabled, job not published")
	return nil
}
