// Package kafka は注文イベントをKafkaへ発行するプロデューサーを提供する。
package kafka

import (
	"time"

	"github.com/hitoshi/storefront/internal/model"
)

// EventType はイベント種別。
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusUpdated EventType = "order.status_updated"
)

// DefaultOrderTopic は注文イベントの既定トピック。
const DefaultOrderTopic = "storefront.order.events"

// OrderEvent は注文イベントのペイロード。メッセージキーは注文IDを使う。
type OrderEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	ItemCount  int       `json:"item_count"`
	OrderCDate int64     `json:"cdate"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewOrderEvent は注文からイベントを組み立てる。
func NewOrderEvent(eventType EventType, order *model.Order) OrderEvent {
	return OrderEvent{
		EventType:  eventType,
		OrderID:    order.ID,
		CustomerID: order.Customer.ID,
		Status:     string(order.Status),
		Total:      order.Total,
		ItemCount:  len(order.Items),
		OrderCDate: order.CDate,
		Timestamp:  time.Now().UTC(),
	}
}
