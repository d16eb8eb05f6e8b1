package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ai-chat-sync/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher is the outbound half of the change feed.
type Publisher interface {
	PublishChange(ctx context.Context, event ChangeEvent) error
}

// Feed is the inbound half: one Subscribe per table topic.
type Feed interface {
	Subscribe(ctx context.Context, table string) (*Subscription, error)
}

// Bus is the in-process change feed. Repository mutations and the NATS bridge
// publish into it; cache engines and the websocket forwarder subscribe.
// gochannel fans every event out to all active subscribers of the topic.
type Bus struct {
	pubSub *gochannel.GoChannel
	log    logger.ILogger
}

func NewBus(log logger.ILogger) *Bus {
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			// Publish must not return before every subscriber has taken the
			// message, otherwise back-to-back publishes race and per-table
			// emission order is lost.
			BlockPublishUntilSubscriberAck: true,
		},
		watermillLogger,
	)
	return &Bus{pubSub: pubSub, log: log}
}

func (b *Bus) PublishChange(ctx context.Context, event ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := b.pubSub.Publish(Topic(event.Table), msg); err != nil {
		return fmt.Errorf("publish change event to %s: %w", Topic(event.Table), err)
	}
	return nil
}

// Subscribe opens one change subscription for a table. Events arrive on the
// returned handle in emission order, decoded and validated; malformed
// payloads are logged and dropped.
func (b *Bus) Subscribe(ctx context.Context, table string) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	messages, err := b.pubSub.Subscribe(subCtx, Topic(table))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to %s: %w", Topic(table), err)
	}

	sub := &Subscription{
		table:  table,
		events: make(chan ChangeEvent, 16),
		cancel: cancel,
	}

	go func() {
		defer close(sub.events)
		for msg := range messages {
			var event ChangeEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.log.Warn("Realtime", "Dropping malformed change event", map[string]interface{}{
					"table": table,
					"error": err.Error(),
				})
				msg.Ack()
				continue
			}
			if err := event.Validate(); err != nil {
				b.log.Warn("Realtime", "Dropping invalid change event", map[string]interface{}{
					"table": table,
					"error": err.Error(),
				})
				msg.Ack()
				continue
			}
			sub.events <- event
			msg.Ack()
		}
	}()

	return sub, nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// Subscription is one open realtime channel bound to a table. Events are
// delivered sequentially; Unsubscribe stops delivery and eventually closes
// the Events channel.
type Subscription struct {
	table  string
	events chan ChangeEvent
	cancel context.CancelFunc
	once   sync.Once
}

func (s *Subscription) Table() string {
	return s.table
}

func (s *Subscription) Events() <-chan ChangeEvent {
	return s.events
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}
