package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/trendyware/storefront-api/models"
	"go.uber.org/zap"
)

// Event types consumed by the notification service.
const (
	EventOrderConfirmation = "order_confirmation"
	EventShippingUpdate    = "shipping_update"
	EventOrderCancellation = "order_cancellation"
)

// Event is the payload published for each customer notification. The
// notification service owns template rendering and delivery.
type Event struct {
	Type           string    `json:"type"`
	OrderID        uint      `json:"order_id"`
	OrderRef       string    `json:"order_ref"`
	UserID         *string   `json:"user_id,omitempty"`
	GuestEmail     string    `json:"guest_email,omitempty"`
	TotalAmount    float64   `json:"total_amount"`
	Currency       string    `json:"currency"`
	CarrierName    string    `json:"carrier_name,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	TrackingURL    string    `json:"tracking_url,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	At             time.Time `json:"at"`
}

// Dispatcher delivers best-effort customer notifications. Implementations
// must never return delivery failures to the caller; the financial commit
// has already happened by the time these run.
type Dispatcher interface {
	OrderConfirmation(order *models.Order)
	ShippingUpdate(order *models.Order)
	OrderCancellation(order *models.Order, reason string)
}

func baseEvent(kind string, order *models.Order) Event {
	return Event{
		Type:        kind,
		OrderID:     order.ID,
		OrderRef:    order.OrderRef,
		UserID:      order.UserID,
		GuestEmail:  order.GuestEmail,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		At:          time.Now(),
	}
}

// KafkaDispatcher publishes notification events to a kafka topic.
type KafkaDispatcher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafkaDispatcher(brokers []string, topic string, log *zap.Logger) (*KafkaDispatcher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka notification producer initialized", zap.Strings("brokers", brokers))
	return &KafkaDispatcher{producer: producer, topic: topic, log: log}, nil
}

// NewKafkaDispatcherWith wires an existing producer; used by tests.
func NewKafkaDispatcherWith(producer sarama.SyncProducer, topic string, log *zap.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, topic: topic, log: log}
}

func (d *KafkaDispatcher) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		d.log.Error("failed to marshal notification event",
			zap.String("type", ev.Type), zap.Error(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: d.topic,
		Key:   sarama.StringEncoder(ev.OrderRef),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := d.producer.SendMessage(msg); err != nil {
		// Delivery is best effort; the order mutation already committed.
		d.log.Error("failed to publish notification event",
			zap.String("type", ev.Type),
			zap.Uint("order_id", ev.OrderID),
			zap.Error(err))
		return
	}

	d.log.Info("notification event published",
		zap.String("type", ev.Type), zap.Uint("order_id", ev.OrderID))
}

func (d *KafkaDispatcher) OrderConfirmation(order *models.Order) {
	d.publish(baseEvent(EventOrderConfirmation, order))
}

func (d *KafkaDispatcher) ShippingUpdate(order *models.Order) {
	ev := baseEvent(EventShippingUpdate, order)
	ev.CarrierName = order.CarrierName
	ev.TrackingNumber = order.TrackingNumber
	ev.TrackingURL = order.TrackingURL
	d.publish(ev)
}

func (d *KafkaDispatcher) OrderCancellation(order *models.Order, reason string) {
	ev := baseEvent(EventOrderCancellation, order)
	ev.Reason = reason
	d.publish(ev)
}

func (d *KafkaDispatcher) Close() error {
	return d.producer.Close()
}

// LogDispatcher is used when no brokers are configured.
type LogDispatcher struct {
	Log *zap.Logger
}

func (d LogDispatcher) emit(ev Event) {
	d.Log.Info("notification (log only)",
		zap.String("type", ev.Type),
		zap.Uint("order_id", ev.OrderID),
		zap.String("order_ref", ev.OrderRef))
}

func (d LogDispatcher) OrderConfirmation(order *models.Order) {
	d.emit(baseEvent(EventOrderConfirmation, order))
}

func (d LogDispatcher) ShippingUpdate(order *models.Order) {
	d.emit(baseEvent(EventShippingUpdate, order))
}

func (d LogDispatcher) OrderCancellation(order *models.Order, reason string) {
	ev := baseEvent(EventOrderCancellation, order)
	ev.Reason = reason
	d.emit(ev)
}
