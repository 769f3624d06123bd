package http

import (
	"errors"
	"net/http"

	"nexus-market/internal/domain"
	"nexus-market/internal/infra"
	"nexus-market/internal/services"
	"nexus-market/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store     *services.Store
	assistant infra.AssistantInterface
	log       *logger.Logger
}

func NewHandler(s *services.Store, a infra.AssistantInterface, log *logger.Logger) *Handler {
	return &Handler{store: s, assistant: a, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/session", h.GetSession)

	auth := r.Group("/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)

	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.POST("/products", h.CreateProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)

	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.POST("/cart/items/:productId/decrement", h.DecrementCartItem)
	r.DELETE("/cart/items/:productId", h.RemoveCartItem)

	r.POST("/orders", h.PlaceOrder)
	r.GET("/dashboard", h.GetDashboard)

	admin := r.Group("/admin", h.requireRole(domain.RoleAdmin))
	admin.GET("/orders", h.ListOrders)
	admin.GET("/users", h.ListUsers)
	admin.GET("/stats", h.GetStats)

	r.POST("/assistant", h.Ask)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, infra.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoCurrentUser),
		errors.Is(err, services.ErrBadPassword):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, infra.ErrAssistantUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", err)
	}
	msg := services.Message(err)
	if errors.Is(err, infra.ErrAssistantUnavailable) {
		msg = "Failed to connect to AI assistant."
	} else if errors.Is(err, infra.ErrEmptyQuery) {
		msg = "Please ask a question."
	}
	c.JSON(status, gin.H{"error": msg})
}

// requireRole admits only the listed roles.
func (h *Handler) requireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := h.store.CurrentUser()
		if u == nil {
			h.fail(c, services.ErrNoCurrentUser)
			c.Abort()
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		h.fail(c, services.ErrForbidden)
		c.Abort()
	}
}

func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{
		User:      toUserResponse(h.store.CurrentUser()),
		CartCount: services.CartCount(h.store.Cart()),
	})
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match."})
		return
	}
	role, err := domain.ParseUserRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.Signup(c.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}
	user, err := h.store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.store.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListProducts(c *gin.Context) {
	var f services.ProductFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.store.Catalog(f))
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.store.Product(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.store.AddProduct(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.UpdateProduct(c.Request.Context(), c.Param("id"), in); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.store.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(h.store.Cart()))
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.AddToCartByID(c.Request.Context(), req.ProductID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(h.store.Cart()))
}

func (h *Handler) DecrementCartItem(c *gin.Context) {
	if err := h.store.DecrementCartItem(c.Request.Context(), c.Param("productId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(h.store.Cart()))
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	if err := h.store.RemoveFromCart(c.Request.Context(), c.Param("productId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(h.store.Cart()))
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address is required."})
		return
	}
	order, err := h.store.PlaceOrder(c.Request.Context(), req.Address)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.store.Dashboard()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DashboardResponse{
		Role:     d.Role,
		Orders:   d.Orders,
		Products: d.Products,
		Users:    toUserResponses(d.Users),
		Stats:    d.Stats,
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Orders())
}

func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponses(h.store.Users()))
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

// Ask forwards the question and the current catalog to the shopping assistant.
// Assistant failures never touch the store.
func (h *Handler) Ask(c *gin.Context) {
	var req AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please ask a question."})
		return
	}
	if h.assistant == nil {
		h.fail(c, infra.ErrAssistantUnavailable)
		return
	}
	advice, err := h.assistant.Advise(c.Request.Context(), req.Query, h.store.Products())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
