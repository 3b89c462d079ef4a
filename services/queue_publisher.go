package services

import (
	"context"
	"encoding/json"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/utils"
)

// Event untuk tooling staff di luar proses ini. Publish best-effort:
// error dicatat dan dikembalikan, tapi flow utama tidak pernah gagal
// karena broker mati. Dinonaktifkan kalau RABBITMQ_URL kosong.

type OrderCreatedEvent struct {
	OrderID      string  `json:"order_id"`
	RestaurantID string  `json:"restaurant_id"`
	TableID      string  `json:"table_id"`
	UserID       string  `json:"user_id"`
	Total        float64 `json:"total"`
	ItemCount    int     `json:"item_count"`
	CreatedAt    string  `json:"created_at"`
}

type HelpRequestedEvent struct {
	RequestID    uint   `json:"request_id"`
	RestaurantID string `json:"restaurant_id"`
	TableID      string `json:"table_id"`
	UserName     string `json:"user_name"`
	Reason       string `json:"reason,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// PublishOrderCreated menerbitkan event order baru ke queue "order.created".
func PublishOrderCreated(ctx context.Context, order models.Order) error {
	itemCount := 0
	for _, it := range order.Items {
		itemCount += it.Quantity
	}
	return publish(ctx, "order.created", OrderCreatedEvent{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		TableID:      order.TableID,
		UserID:       order.UserID,
		Total:        order.Total,
		ItemCount:    itemCount,
		CreatedAt:    order.CreatedAt.Format(time.RFC3339),
	})
}

// PublishHelpRequested menerbitkan event panggilan staff ke "help.requested".
func PublishHelpRequested(ctx context.Context, request models.HelpRequest) error {
	return publish(ctx, "help.requested", HelpRequestedEvent{
		RequestID:    request.ID,
		RestaurantID: request.RestaurantID,
		TableID:      request.TableID,
		UserName:     request.UserName,
		Reason:       request.Reason,
		CreatedAt:    request.CreatedAt.Format(time.RFC3339),
	})
}

func publish(ctx context.Context, queueName string, event interface{}) error {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		// Broker opsional; tanpa URL, event hanya dilewati.
		return nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		utils.ErrorLogger.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		utils.ErrorLogger.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable supaya pesan selamat dari restart broker.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		utils.ErrorLogger.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		utils.ErrorLogger.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
