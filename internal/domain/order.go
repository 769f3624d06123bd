package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
)

// Order is immutable once placed. Items is a frozen copy of the cart.
type Order struct {
	ID        string      `json:"id"`
	BuyerID   string      `json:"buyerId"`
	Items     []CartItem  `json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	Address   string      `json:"address"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Contains reports whether any line of the order is for the given product.
func (o Order) Contains(productID string) bool {
	for _, it := range o.Items {
		if it.ID == productID {
			return true
		}
	}
	return false
}
