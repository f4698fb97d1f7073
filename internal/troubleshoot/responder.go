package troubleshoot

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/roomprefs/internal/logger"
	rpnats "github.com/mark3labs/roomprefs/internal/nats"
	"github.com/nats-io/nats.go"
)

// Listen delivers test notifications until ctx is done, then
// unsubscribes and closes the returned channel.
func Listen(ctx context.Context, nc *nats.Conn) (<-chan TestNotification, error) {
	msgs := make(chan *nats.Msg, 8)
	sub, err := nc.ChanSubscribe(rpnats.SubjectTestNotification, msgs)
	if err != nil {
		return nil, err
	}

	out := make(chan TestNotification)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Unsubscribe(); err != nil {
				logger.Debug("Unsubscribing test notification listener: %v", err)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				var n TestNotification
				if err := json.Unmarshal(msg.Data, &n); err != nil {
					logger.Warn("Dropping malformed test notification: %v", err)
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Click reports a click on test notification id.
func Click(nc *nats.Conn, id string) error {
	return nc.Publish(rpnats.SubjectForClick(id), nil)
}
