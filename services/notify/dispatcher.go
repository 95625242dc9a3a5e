// Package notify delivers email notifications in the background so that
// request handlers never wait on a mail server.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/Ritu-90/c25077715-cmt120-cw2/config"
	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned by Enqueue before Start or after Stop
	ErrNotStarted = errors.New("notification dispatcher not running")

	// ErrQueueFull is returned by Enqueue when the buffer has no room
	ErrQueueFull = errors.New("notification queue full")
)

// Notification is one email waiting to be sent
type Notification struct {
	ToName  string
	To      string
	Subject string
	Body    string
}

// Options configures a Dispatcher
type Options struct {
	Workers      int
	BufferSize   int
	SendTimeout  time.Duration
	AdminName    string
	AdminAddress string
}

// OptionsFromConfig derives dispatcher options from the mail config
func OptionsFromConfig(cfg config.MailConfig) Options {
	return Options{
		Workers:      cfg.Workers,
		BufferSize:   cfg.BufferSize,
		SendTimeout:  cfg.SendTimeout,
		AdminName:    cfg.AdminName,
		AdminAddress: cfg.AdminAddress,
	}
}

// Stats is a snapshot of the dispatcher state
type Stats struct {
	Workers int  `json:"workers"`
	Buffer  int  `json:"buffer_size"`
	Pending int  `json:"pending"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
	Dropped int  `json:"dropped"`
	Running bool `json:"running"`
}

// Dispatcher sends notifications from a buffered queue with a fixed pool of workers
type Dispatcher struct {
	mailer Mailer
	opts   Options
	logger *zap.Logger

	queue chan *Notification
	wg    sync.WaitGroup

	mu      sync.Mutex
	running bool
	stopped bool
	sent    int
	failed  int
	dropped int
}

// NewDispatcher creates a dispatcher. Call Start before enqueueing.
func NewDispatcher(mailer Mailer, opts Options, logger *zap.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 15 * time.Second
	}
	return &Dispatcher{
		mailer: mailer,
		opts:   opts,
		logger: logger,
		queue:  make(chan *Notification, opts.BufferSize),
	}
}

// Start launches the workers
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("notification dispatcher already started")
	}
	if d.stopped {
		return fmt.Errorf("notification dispatcher already stopped")
	}

	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.running = true
	d.logger.Info("started notification dispatcher",
		zap.Int("workers", d.opts.Workers),
		zap.Int("buffer_size", d.opts.BufferSize))
	return nil
}

// Stop refuses new notifications and waits up to timeout for the queue to drain
func (d *Dispatcher) Stop(timeout time.Duration) error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrNotStarted
	}
	d.running = false
	d.stopped = true
	pending := len(d.queue)
	close(d.queue)
	d.mu.Unlock()

	d.logger.Info("stopping notification dispatcher", zap.Int("pending", pending))

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("notification dispatcher stop timeout after %v", timeout)
	}
}

// Enqueue queues n without blocking
func (d *Dispatcher) Enqueue(n *Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return ErrNotStarted
	}

	select {
	case d.queue <- n:
		return nil
	default:
		d.dropped++
		d.logger.Warn("notification queue full, dropping notification",
			zap.String("subject", n.Subject))
		return ErrQueueFull
	}
}

// NotifyNewMessage tells the site admin about a new contact message.
// It is a no-op when no admin address is configured.
func (d *Dispatcher) NotifyNewMessage(msg *models.ContactMessage) error {
	if d.opts.AdminAddress == "" {
		return nil
	}

	var body bytes.Buffer
	if err := newMessageTemplate.Execute(&body, msg); err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	return d.Enqueue(&Notification{
		ToName:  d.opts.AdminName,
		To:      d.opts.AdminAddress,
		Subject: fmt.Sprintf("New contact message from %s", msg.Name),
		Body:    body.String(),
	})
}

// Stats returns the current counters
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Stats{
		Workers: d.opts.Workers,
		Buffer:  d.opts.BufferSize,
		Pending: len(d.queue),
		Sent:    d.sent,
		Failed:  d.failed,
		Dropped: d.dropped,
		Running: d.running,
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("notification worker started", zap.Int("worker_id", id))

	for n := range d.queue {
		err := d.deliver(n)

		d.mu.Lock()
		if err != nil {
			d.failed++
		} else {
			d.sent++
		}
		d.mu.Unlock()

		if err != nil {
			d.logger.Error("failed to send notification",
				zap.Int("worker_id", id),
				zap.String("to", n.To),
				zap.String("subject", n.Subject),
				zap.Error(err))
		}
	}

	d.logger.Debug("notification worker stopped", zap.Int("worker_id", id))
}

func (d *Dispatcher) deliver(n *Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.SendTimeout)
	defer cancel()

	return d.mailer.Send(ctx, n.ToName, n.To, n.Subject, n.Body)
}

var newMessageTemplate = template.Must(template.New("new_message").Parse(
	`<p>A new message was left on the contact page.</p>
<p><strong>From:</strong> {{.Name}}{{if .IsAnonymous}} (not logged in){{end}}</p>
<p><strong>Received:</strong> {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>
<blockquote>{{.Message}}</blockquote>
`))
