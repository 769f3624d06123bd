package domain

// Snapshot is the persisted marketplace database.
type Snapshot struct {
	Users    []User    `json:"users"`
	Products []Product `json:"products"`
	Orders   []Order   `json:"orders"`
}

// DefaultSnapshot is what a first run starts from: no users, no orders and the seed catalog.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Users:    []User{},
		Products: SeedProducts(),
		Orders:   []Order{},
	}
}

// Normalize replaces nil lists with empty ones so the snapshot always encodes as arrays.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Orders == nil {
		s.Orders = []Order{}
	}
}
