package events

import (
	"context"
	"time"

	"staywise/pkg/kafka"
	"staywise/pkg/logger"
	"staywise/pkg/middleware"
	"staywise/pkg/model"
)

const (
	// Topic carries all booking lifecycle events, keyed by booking ID so
	// consumers see each booking's events in order.
	Topic    = "staywise.bookings"
	DLQTopic = "staywise.bookings.dlq"

	Source = "staywise-api"

	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is the payload published for every lifecycle event.
type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	OldStatus  string    `json:"old_status,omitempty"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. Publishing is best-effort: the
// booking is already persisted when these run, so failures are logged by the
// caller and never surfaced to the client.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingStatusChanged(ctx context.Context, booking *model.Booking, oldStatus string) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, EventBookingCreated, booking, "")
}

func (p *kafkaPublisher) BookingStatusChanged(ctx context.Context, booking *model.Booking, oldStatus string) error {
	return p.publish(ctx, EventBookingStatusChanged, booking, oldStatus)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking, oldStatus string) error {
	event := BookingEvent{
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		UserID:     booking.UserID,
		Status:     booking.Status,
		OldStatus:  oldStatus,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		Guests:     booking.Guests,
		TotalPrice: booking.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}

	builder := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(Source)
	if requestID := middleware.RequestIDFrom(ctx); requestID != "" {
		builder = builder.WithCorrelationID(requestID)
	}

	return p.producer.Publish(ctx, builder.Build())
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops all events, for deployments
// without Kafka brokers configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) BookingCreated(context.Context, *model.Booking) error {
	return nil
}

func (noopPublisher) BookingStatusChanged(context.Context, *model.Booking, string) error {
	return nil
}
