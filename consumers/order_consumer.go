package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"proudshop/config"
	"proudshop/models"
	"proudshop/services"
	"proudshop/store"
)

type OrderConsumer struct {
	orders *services.OrderService
}

func NewOrderConsumer(orders *services.OrderService) *OrderConsumer {
	return &OrderConsumer{orders: orders}
}

func (c *OrderConsumer) Start(ch *amqp.Channel, cfg *config.Config) {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"proudshop-orders", // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to register consumer: %v", err)
	}

	go func() {
		for msg := range msgs {
			c.processOrderMessage(msg)
		}
	}()

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"proudshop-orders-dlq", // consumer tag
		false,                  // auto-ack
		false,                  // exclusive
		false,                  // no-local
		false,                  // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumer: %v", err)
		return
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetterMessage(msg)
		}
	}()
}

func (c *OrderConsumer) processOrderMessage(msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in message processing: %v", r)
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Invalid event payload: %s", msg.Body)
		if err := msg.Nack(false, false); err != nil {
			log.Printf("Failed to nack message: %v", err)
		}
		return
	}

	log.Printf("Processing order event: ID=%d, Type=%s", event.OrderID, event.Type)

	switch event.Type {
	case "created":
		// Downstream systems pick this up from their own bindings.
	case "status_updated":
		c.handleStatusUpdated(event.OrderID)
	case "payment_check":
		c.handlePaymentCheck(event.OrderID)
	default:
		log.Printf("Unknown event type: %s", event.Type)
	}

	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to ack message: %v", err)
	}
}

func processDeadLetterMessage(msg amqp.Delivery) {
	log.Printf("Received dead letter: %s", msg.Body)
	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to ack dead letter: %v", err)
	}
}

func (c *OrderConsumer) handleStatusUpdated(orderID int) {
	order, err := c.orders.Get(context.Background(), orderID)
	if err != nil {
		log.Printf("Failed to get order %d: %v", orderID, err)
		return
	}
	log.Printf("Handling status update for order %d: %s", orderID, order.Status)
}

// handlePaymentCheck auto-cancels an order that is still PENDING when the
// delayed payment check fires. Cancellation goes through the order service so
// the customer notification and the status event also run.
func (c *OrderConsumer) handlePaymentCheck(orderID int) {
	ctx := context.Background()
	order, err := c.orders.Get(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("Failed to get order %d: %v", orderID, err)
		return
	}

	if order.Status == models.OrderStatusPending {
		if _, err := c.orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
			log.Printf("Failed to auto-cancel order %d: %v", orderID, err)
		} else {
			log.Printf("Auto-cancelled order %d due to non-payment", orderID)
		}
	}
}
