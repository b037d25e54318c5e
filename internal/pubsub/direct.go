package pubsub

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

var _ PubSubClient = (*Direct)(nil)

// NewDirect returns a client that delivers messages synchronously to
// handlers registered with Subscribe. It is used when no GCP project is set.
func NewDirect() *Direct {
	return &Direct{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers h for topic.
func (d *Direct) Subscribe(topic EventType, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[topic] = append(d.handlers[topic], h)
}

func (d *Direct) SendMessage(ctx context.Context, topic EventType, data any) error {
	payload, err := encode(data)
	if err != nil {
		return err
	}
	d.mu.RLock()
	handlers := d.handlers[topic]
	d.mu.RUnlock()
	if len(handlers) == 0 {
		log.Debug("No subscribers for topic", "topic", topic)
		return nil
	}
	var errs []error
	for _, h := range handlers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h(payload); err != nil {
			log.Error("Subscriber failed", "topic", topic, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Direct) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (d *Direct) Close() error { return nil }
