// Package queue_publisher pushes booking lifecycle events onto the
// booking.events queue.  Publishing is best effort: every failure is
// logged and returned, and callers fire it from a detached goroutine
// so a broker outage never fails the booking mutation itself.
package queue_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/IngAlexfit/caribeVibes-system-sub000/internal/queue"
)

const bookingQueueName = "booking.events"

// PublishBookingEvent delivers one event to booking.events as a
// persistent JSON message.  Each call opens its own connection;
// booking mutations are far too infrequent for channel pooling to
// matter here.
func PublishBookingEvent(ctx context.Context, event q.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("booking-publisher: dial: %v", err)
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("booking-publisher: open channel: %v", err)
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		log.Printf("booking-publisher: declare %s: %v", bookingQueueName, err)
		return err
	}

	err = ch.PublishWithContext(ctx, "", bookingQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Printf("booking-publisher: publish %s: %v", event.Kind, err)
	}
	return err
}
