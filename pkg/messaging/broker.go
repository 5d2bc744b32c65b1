// Package messaging publishes appointment lifecycle events so other
// services (reminders, analytics) can react without the booking path
// depending on them.
package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels for appointment lifecycle events.
const (
	ChannelAppointmentCreated       = "appointments.created"
	ChannelAppointmentStatusChanged = "appointments.status_changed"
)

// NoopBroker discards everything; used when no broker is configured.
type NoopBroker struct{}

func (NoopBroker) Publish(context.Context, string, interface{}) error { return nil }

func (NoopBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

func (NoopBroker) Close() error { return nil }
