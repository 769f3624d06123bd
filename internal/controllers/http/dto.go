package http

import (
	"time"

	"nexus-market/internal/domain"
	"nexus-market/internal/services"
)

type SignupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type PlaceOrderRequest struct {
	Address string `json:"address" binding:"required"`
}

type AssistantRequest struct {
	Query string `json:"query" binding:"required"`
}

// UserResponse never carries the password.
type UserResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func toUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *toUserResponse(&users[i]))
	}
	return out
}

type CartResponse struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

func toCartResponse(items []domain.CartItem) CartResponse {
	return CartResponse{Items: items, Count: services.CartCount(items), Total: services.CartTotal(items)}
}

type DashboardResponse struct {
	Role     domain.UserRole      `json:"role"`
	Orders   []services.OrderView `json:"orders"`
	Products []domain.Product     `json:"products,omitempty"`
	Users    []UserResponse       `json:"users,omitempty"`
	Stats    *services.AdminStats `json:"stats,omitempty"`
}

type SessionResponse struct {
	User      *UserResponse `json:"user"`
	CartCount int           `json:"cartCount"`
}
