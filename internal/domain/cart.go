package domain

// CartItem is a copy of the product taken when it was first added, plus a quantity.
// Quantity is always at least 1.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
