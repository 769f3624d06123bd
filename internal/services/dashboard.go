package services

import (
	"slices"

	"nexus-market/internal/domain"

	"github.com/shopspring/decimal"
)

type AdminStats struct {
	TotalSales     float64 `json:"totalSales"`
	OrderCount     int     `json:"orderCount"`
	UserCount      int     `json:"userCount"`
	ActiveListings int     `json:"activeListings"`
}

type OrderView struct {
	domain.Order
	BuyerName string `json:"buyerName"`
}

// Dashboard is the role-scoped view for the signed-in user. Only the
// fields relevant to Role are filled.
type Dashboard struct {
	Role     domain.UserRole  `json:"role"`
	Orders   []OrderView      `json:"orders"`
	Products []domain.Product `json:"products,omitempty"`
	Users    []domain.User    `json:"users,omitempty"`
	Stats    *AdminStats      `json:"stats,omitempty"`
}

func (s *Store) Dashboard() (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser
	if u == nil {
		return nil, ErrNoCurrentUser
	}

	d := &Dashboard{Role: u.Role}
	switch u.Role {
	case domain.RoleBuyer:
		for _, o := range s.snap.Orders {
			if o.BuyerID == u.ID {
				d.Orders = append(d.Orders, s.orderViewLocked(o))
			}
		}
	case domain.RoleSeller:
		owned := map[string]bool{}
		for _, p := range s.snap.Products {
			if p.SellerID == u.ID {
				d.Products = append(d.Products, p)
				owned[p.ID] = true
			}
		}
		for _, o := range s.snap.Orders {
			if slices.ContainsFunc(o.Items, func(it domain.CartItem) bool { return owned[it.ID] || it.SellerID == u.ID }) {
				d.Orders = append(d.Orders, s.orderViewLocked(o))
			}
		}
	case domain.RoleAdmin:
		d.Stats = s.statsLocked()
		d.Products = slices.Clone(s.snap.Products)
		d.Users = slices.Clone(s.snap.Users)
		for _, o := range s.snap.Orders {
			d.Orders = append(d.Orders, s.orderViewLocked(o))
		}
	default:
		return nil, ErrForbidden
	}
	if d.Orders == nil {
		d.Orders = []OrderView{}
	}
	return d, nil
}

// Stats is the admin overview. Revenue is summed from the frozen order totals.
func (s *Store) Stats() AdminStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.statsLocked()
}

func (s *Store) statsLocked() *AdminStats {
	sales := decimal.Zero
	for _, o := range s.snap.Orders {
		sales = sales.Add(decimal.NewFromFloat(o.Total))
	}
	return &AdminStats{
		TotalSales:     sales.InexactFloat64(),
		OrderCount:     len(s.snap.Orders),
		UserCount:      len(s.snap.Users),
		ActiveListings: len(s.snap.Products),
	}
}

// AnonymousBuyer names the buyer of an order whose account no longer resolves.
const AnonymousBuyer = "Anonymous"

func (s *Store) orderViewLocked(o domain.Order) OrderView {
	v := OrderView{Order: *cloneOrder(&o), BuyerName: AnonymousBuyer}
	for _, u := range s.snap.Users {
		if u.ID == o.BuyerID {
			v.BuyerName = u.Name
			break
		}
	}
	return v
}
