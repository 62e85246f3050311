package bookings

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Booking lifecycle event types published to Kafka
const (
	EventBookingHeld      = "booking.held"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingReleased  = "booking.released"
	EventBookingExpired   = "booking.expired"
	EventBookingRejected  = "booking.rejected"
)

// BookingEvent is the wire format for booking lifecycle messages
type BookingEvent struct {
	EventType  string    `json:"event_type"`
	OrgID      uuid.UUID `json:"org_id"`
	BookingRef string    `json:"booking_ref"`
	VariantID  uuid.UUID `json:"variant_id,omitempty"`
	SupplierID uuid.UUID `json:"supplier_id,omitempty"`
	Status     Status    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher publishes booking lifecycle events. A nil publisher is
// valid: environments without Kafka skip publishing.
type EventPublisher interface {
	PublishBookingEvent(event *BookingEvent) error
	Close() error
}

// KafkaPublisherConfig contains configuration for the Kafka booking publisher
type KafkaPublisherConfig struct {
	Brokers      []string
	BookingTopic string
	RetryMax     int
	TimeoutMs    int
}

// DefaultKafkaPublisherConfig returns a default publisher configuration
func DefaultKafkaPublisherConfig() *KafkaPublisherConfig {
	return &KafkaPublisherConfig{
		Brokers:      []string{"localhost:9092"},
		BookingTopic: "booking-events",
		RetryMax:     3,
		TimeoutMs:    10000,
	}
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	config   *KafkaPublisherConfig
}

// NewKafkaPublisher creates a sync producer for booking events. Messages are
// keyed by org + booking ref so one booking's events stay ordered.
func NewKafkaPublisher(config *KafkaPublisherConfig) (EventPublisher, error) {
	if config == nil {
		config = DefaultKafkaPublisherConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("Kafka booking event publisher created successfully")
	return &kafkaPublisher{producer: producer, config: config}, nil
}

func (p *kafkaPublisher) PublishBookingEvent(event *BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.BookingTopic,
		Key:       sarama.StringEncoder(event.OrgID.String() + ":" + event.BookingRef),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	log.Printf("Published %s for %s (partition=%d, offset=%d)", event.EventType, event.BookingRef, partition, offset)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
