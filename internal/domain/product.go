package domain

// Product is a catalog listing owned by the seller in SellerID.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Stock       int     `json:"stock"`
	SellerID    string  `json:"sellerId"`
	ImageURL    string  `json:"imageUrl"`
}

var Categories = []string{"Electronics", "Fashion", "Home & Kitchen", "Books", "Sports", "Beauty"}

var Brands = []string{"Nexus", "Aura", "Titan", "Zenith", "Lumina"}

// SeedProducts returns a fresh copy of the first-run catalog.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Title:       "Nexus Ultra Phone",
			Description: "The latest flagship with AI processing and 108MP camera.",
			Price:       999,
			Category:    "Electronics",
			Brand:       "Nexus",
			Stock:       15,
			SellerID:    "seller_1",
			ImageURL:    "https://picsum.photos/seed/phone/600/400",
		},
		{
			ID:          "2",
			Title:       "Aura Wireless Headphones",
			Description: "Noise cancelling studio-quality sound with 40h battery.",
			Price:       249,
			Category:    "Electronics",
			Brand:       "Aura",
			Stock:       25,
			SellerID:    "seller_1",
			ImageURL:    "https://picsum.photos/seed/audio/600/400",
		},
		{
			ID:          "3",
			Title:       "Titan Mechanical Keyboard",
			Description: "Tactile feedback for pro gamers and typists.",
			Price:       129,
			Category:    "Electronics",
			Brand:       "Titan",
			Stock:       8,
			SellerID:    "seller_2",
			ImageURL:    "https://picsum.photos/seed/keyboard/600/400",
		},
		{
			ID:          "4",
			Title:       "Zenith Canvas Jacket",
			Description: "Water-resistant stylish jacket for all seasons.",
			Price:       89,
			Category:    "Fashion",
			Brand:       "Zenith",
			Stock:       40,
			SellerID:    "seller_2",
			ImageURL:    "https://picsum.photos/seed/fashion/600/400",
		},
	}
}
