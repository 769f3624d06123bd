package domain

import "time"

type OrderPlacedEvent struct {
	OrderID   string    `json:"orderId"`
	BuyerID   string    `json:"buyerId"`
	ItemCount int       `json:"itemCount"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
	}
	return OrderPlacedEvent{
		OrderID:   o.ID,
		BuyerID:   o.BuyerID,
		ItemCount: count,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
}
