// Package troubleshoot checks that test notifications reach a client and
// that clicking them reaches back.
package troubleshoot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/roomprefs/internal/logger"
	rpnats "github.com/mark3labs/roomprefs/internal/nats"
	"github.com/nats-io/nats.go"
)

// DefaultTimeout is how long a click test waits for the click.
const DefaultTimeout = 30 * time.Second

// ErrTimeout means nobody clicked the test notification in time.
var ErrTimeout = errors.New("test notification was not clicked in time")

type Status int

const (
	Idle Status = iota
	WaitingForClick
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case WaitingForClick:
		return "waiting for click"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// TestNotification is published to every listening client.
type TestNotification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Result is the outcome of one click test.
type Result struct {
	Status  Status
	TestID  string
	Elapsed time.Duration
	Err     error
}

// ClickTest publishes a test notification and waits for it to be clicked.
type ClickTest struct {
	nc      *nats.Conn
	timeout time.Duration

	mu     sync.Mutex
	status Status
}

func NewClickTest(nc *nats.Conn, timeout time.Duration) *ClickTest {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ClickTest{nc: nc, timeout: timeout}
}

func (c *ClickTest) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *ClickTest) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Run performs one test. The click subscription is removed on every
// exit path.
func (c *ClickTest) Run(ctx context.Context) Result {
	start := time.Now()
	id := uuid.NewString()
	fail := func(err error) Result {
		c.setStatus(Failure)
		logger.Warn("Click test %s failed: %v", id, err)
		return Result{Status: Failure, TestID: id, Elapsed: time.Since(start), Err: err}
	}

	clicks := make(chan *nats.Msg, 1)
	sub, err := c.nc.ChanSubscribe(rpnats.SubjectForClick(id), clicks)
	if err != nil {
		return fail(fmt.Errorf("subscribing to clicks: %w", err))
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			logger.Debug("Unsubscribing click listener: %v", err)
		}
	}()

	data, err := json.Marshal(TestNotification{
		ID:    id,
		Title: "Test notification",
		Body:  "Click this notification to complete the check.",
	})
	if err != nil {
		return fail(err)
	}
	if err := c.nc.Publish(rpnats.SubjectTestNotification, data); err != nil {
		return fail(fmt.Errorf("publishing test notification: %w", err))
	}
	if err := c.nc.FlushWithContext(ctx); err != nil {
		return fail(fmt.Errorf("flushing test notification: %w", err))
	}

	c.setStatus(WaitingForClick)
	logger.Debug("Click test %s waiting up to %s", id, c.timeout)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-clicks:
		c.setStatus(Success)
		return Result{Status: Success, TestID: id, Elapsed: time.Since(start)}
	case <-timer.C:
		return fail(ErrTimeout)
	case <-ctx.Done():
		return fail(ctx.Err())
	}
}
