package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"nexus-market/internal/domain"
	rabbit "nexus-market/internal/infra/rabbitmq"
	"nexus-market/internal/repository"
	"nexus-market/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const orderPlacedPattern = "order.placed"

// State is a read-only copy of everything the UI renders.
type State struct {
	CurrentUser *domain.User
	Cart        []domain.CartItem
	Products    []domain.Product
	Orders      []domain.Order
	Users       []domain.User
}

type Listener func(State)

// Store owns the marketplace snapshot and the session (current user and cart).
// Every mutation writes the affected slots before it returns; if a write fails
// the in-memory state is left unchanged and ErrPersistence is returned.
// Calls are serialized, so the store behaves as a single actor.
type Store struct {
	mu sync.Mutex

	repo      repository.StateRepository
	publisher rabbit.PublisherInterface
	log       *logger.Logger
	validate  *validator.Validate
	now       func() time.Time
	newID     func() string
	orderID   func() string

	snap        *domain.Snapshot
	currentUser *domain.User
	cart        []domain.CartItem

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int

	// delivering is set while one goroutine runs the notify loop; pending
	// asks it for another round with the latest state.
	notifyMu   sync.Mutex
	delivering bool
	pending    bool

	events sync.WaitGroup
}

type Option func(*Store)

func WithPublisher(p rabbit.PublisherInterface) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the id generators for users/products and orders.
func WithIDs(newID, orderID func() string) Option {
	return func(s *Store) {
		s.newID = newID
		s.orderID = orderID
	}
}

// Open loads the snapshot, session user and cart from repo.
func Open(ctx context.Context, repo repository.StateRepository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:      repo,
		log:       logger.Nop(),
		validate:  validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
		orderID:   NewOrderID,
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	user, err := repo.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	cart, err := repo.LoadCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	s.snap = snap
	s.currentUser = user
	s.cart = cart
	s.log.Infof(ctx, "store loaded", "products", len(snap.Products))
	return s, nil
}

// Close waits for pending order events and releases the repository.
func (s *Store) Close() error {
	s.events.Wait()
	var err error
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		err = multierr.Append(err, c.Close())
	}
	return multierr.Append(err, s.repo.Close())
}

// Subscribe registers fn to receive the new state after every successful
// mutation. The returned func removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

// notify delivers the current state to every listener. Calls that arrive
// while a delivery is running, including ones made from inside a listener,
// are folded into one more round, so each listener always ends on the
// latest committed state.
func (s *Store) notify() {
	s.notifyMu.Lock()
	s.pending = true
	if s.delivering {
		s.notifyMu.Unlock()
		return
	}
	s.delivering = true
	for s.pending {
		s.pending = false
		s.notifyMu.Unlock()

		st := s.State()
		for _, fn := range s.subscribers() {
			fn(st)
		}

		s.notifyMu.Lock()
	}
	s.delivering = false
	s.notifyMu.Unlock()
}

func (s *Store) subscribers() []Listener {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// mutate runs fn under the lock and, on success, notifies listeners once the
// lock is released.
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	if err == nil {
		s.notify()
	}
	return err
}

func (s *Store) stateLocked() State {
	return State{
		CurrentUser: cloneUser(s.currentUser),
		Cart:        slices.Clone(s.cart),
		Products:    slices.Clone(s.snap.Products),
		Orders:      cloneOrders(s.snap.Orders),
		Users:       slices.Clone(s.snap.Users),
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

type SignupInput struct {
	Name     string          `validate:"required"`
	Email    string          `validate:"required,email"`
	Password string          `validate:"required"`
	Role     domain.UserRole `validate:"required"`
}

// Signup registers a new account and signs it in. Emails are compared exactly.
func (s *Store) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, inputError(err)
	}
	if !in.Role.IsValid() {
		return nil, &InputError{Field: "Role", Reason: fieldReason("Role", "oneof")}
	}

	var created domain.User
	err := s.mutate(func() error {
		if _, ok := s.findUserByEmailLocked(in.Email); ok {
			return ErrEmailTaken
		}

		created = domain.User{
			ID:        s.newID(),
			Name:      in.Name,
			Email:     in.Email,
			Role:      in.Role,
			Password:  in.Password,
			CreatedAt: s.now(),
		}
		next := s.snapshotCopyLocked()
		next.Users = append(next.Users, created)

		if err := s.repo.SaveSnapshot(ctx, next); err != nil {
			return s.persistFailed(ctx, err)
		}
		if err := s.repo.SaveSession(ctx, &created); err != nil {
			s.rollbackSnapshot(ctx)
			return s.persistFailed(ctx, err)
		}
		s.snap = next
		s.currentUser = &created
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithUserID(ctx, created.ID)
	s.log.Infof(ctx, "user signed up", "role", created.Role)
	return cloneUser(&created), nil
}

// Login signs in an existing account. The cart is kept.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User
	err := s.mutate(func() error {
		u, ok := s.findUserByEmailLocked(email)
		if !ok {
			return ErrUserNotFound
		}
		if u.Password != password {
			return ErrBadPassword
		}
		if err := s.repo.SaveSession(ctx, &u); err != nil {
			return s.persistFailed(ctx, err)
		}
		user = u
		s.currentUser = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(s.log.WithUserID(ctx, user.ID), "user logged in")
	return cloneUser(&user), nil
}

// Logout clears the session user and the cart.
func (s *Store) Logout(ctx context.Context) error {
	return s.mutate(func() error {
		if err := s.repo.SaveSession(ctx, nil); err != nil {
			return s.persistFailed(ctx, err)
		}
		if err := s.repo.SaveCart(ctx, []domain.CartItem{}); err != nil {
			s.rollbackSession(ctx)
			return s.persistFailed(ctx, err)
		}
		s.currentUser = nil
		s.cart = []domain.CartItem{}
		return nil
	})
}

func (s *Store) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.currentUser)
}

// AddToCart adds one unit of product, copying its current fields when it is
// not in the cart yet.
func (s *Store) AddToCart(ctx context.Context, product domain.Product) error {
	return s.mutate(func() error {
		next := slices.Clone(s.cart)
		if i := cartIndex(next, product.ID); i >= 0 {
			next[i].Quantity++
		} else {
			next = append(next, domain.CartItem{Product: product, Quantity: 1})
		}
		return s.commitCartLocked(ctx, next)
	})
}

// AddToCartByID looks the product up in the catalog and adds one unit.
func (s *Store) AddToCartByID(ctx context.Context, productID string) error {
	s.mu.Lock()
	i := productIndex(s.snap.Products, productID)
	var p domain.Product
	if i >= 0 {
		p = s.snap.Products[i]
	}
	s.mu.Unlock()
	if i < 0 {
		return ErrProductNotFound
	}
	return s.AddToCart(ctx, p)
}

// DecrementCartItem takes one unit off; the entry goes away with its last unit.
// Unknown ids are ignored.
func (s *Store) DecrementCartItem(ctx context.Context, productID string) error {
	return s.mutate(func() error {
		next := slices.Clone(s.cart)
		if i := cartIndex(next, productID); i >= 0 {
			if next[i].Quantity > 1 {
				next[i].Quantity--
			} else {
				next = slices.Delete(next, i, i+1)
			}
		}
		return s.commitCartLocked(ctx, next)
	})
}

// RemoveFromCart drops the whole entry. Unknown ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	return s.mutate(func() error {
		next := slices.DeleteFunc(slices.Clone(s.cart), func(it domain.CartItem) bool {
			return it.ID == productID
		})
		return s.commitCartLocked(ctx, next)
	})
}

func (s *Store) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cart)
}

func (s *Store) commitCartLocked(ctx context.Context, next []domain.CartItem) error {
	if next == nil {
		next = []domain.CartItem{}
	}
	if err := s.repo.SaveCart(ctx, next); err != nil {
		return s.persistFailed(ctx, err)
	}
	s.cart = next
	s.log.Debug(ctx, "cart saved")
	return nil
}

// PlaceOrder records the cart as a paid order for the current user and
// empties the cart. Either all of that is saved or nothing changes.
func (s *Store) PlaceOrder(ctx context.Context, address string) (*domain.Order, error) {
	var order *domain.Order
	err := s.mutate(func() error {
		o, err := BuildOrder(s.currentUser, s.cart, address, s.now(), s.orderID())
		if err != nil {
			return err
		}

		next := s.snapshotCopyLocked()
		next.Orders = append([]domain.Order{*o}, next.Orders...)

		if err := s.repo.SaveSnapshot(ctx, next); err != nil {
			return s.persistFailed(ctx, err)
		}
		if err := s.repo.SaveCart(ctx, []domain.CartItem{}); err != nil {
			s.rollbackSnapshot(ctx)
			return s.persistFailed(ctx, err)
		}
		s.snap = next
		s.cart = []domain.CartItem{}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithField(s.log.WithUserID(ctx, order.BuyerID), "order_id", order.ID)
	s.log.Infof(ctx, "order placed", "total", order.Total)

	if s.publisher != nil {
		evt := domain.NewOrderPlacedEvent(order)
		s.events.Add(1)
		go s.publishOrderPlaced(context.WithoutCancel(ctx), evt)
	}
	return cloneOrder(order), nil
}

func (s *Store) publishOrderPlaced(ctx context.Context, evt domain.OrderPlacedEvent) {
	defer s.events.Done()
	if err := s.publisher.Publish(ctx, orderPlacedPattern, evt); err != nil {
		s.log.Warn(ctx, "failed to publish order.placed", err)
	}
}

type ProductInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"imageUrl"`
}

func (in ProductInput) product(id, sellerID string) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Brand:       in.Brand,
		Stock:       in.Stock,
		SellerID:    sellerID,
		ImageURL:    in.ImageURL,
	}
}

// AddProduct lists a new product owned by the current user.
func (s *Store) AddProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, inputError(err)
	}

	var created domain.Product
	err := s.mutate(func() error {
		if err := s.requireSellerLocked(); err != nil {
			return err
		}
		created = in.product(s.newID(), s.currentUser.ID)
		next := s.snapshotCopyLocked()
		next.Products = append(next.Products, created)
		return s.commitSnapshotLocked(ctx, next)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof(ctx, "product added", "product_id", created.ID)
	return &created, nil
}

// UpdateProduct replaces the product with the same id. The owner never
// changes. Unknown ids are ignored.
func (s *Store) UpdateProduct(ctx context.Context, id string, in ProductInput) error {
	if err := s.validate.Struct(in); err != nil {
		return inputError(err)
	}
	return s.mutate(func() error {
		if err := s.requireSellerLocked(); err != nil {
			return err
		}
		next := s.snapshotCopyLocked()
		if i := productIndex(next.Products, id); i >= 0 {
			if !canManage(s.currentUser, next.Products[i]) {
				return ErrForbidden
			}
			next.Products[i] = in.product(id, next.Products[i].SellerID)
		}
		return s.commitSnapshotLocked(ctx, next)
	})
}

// DeleteProduct removes a listing. Past orders keep their own copy of it.
// Unknown ids are ignored.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.mutate(func() error {
		if err := s.requireSellerLocked(); err != nil {
			return err
		}
		next := s.snapshotCopyLocked()
		if i := productIndex(next.Products, id); i >= 0 {
			if !canManage(s.currentUser, next.Products[i]) {
				return ErrForbidden
			}
			next.Products = slices.Delete(next.Products, i, i+1)
		}
		return s.commitSnapshotLocked(ctx, next)
	})
}

func (s *Store) commitSnapshotLocked(ctx context.Context, next *domain.Snapshot) error {
	if err := s.repo.SaveSnapshot(ctx, next); err != nil {
		return s.persistFailed(ctx, err)
	}
	s.snap = next
	s.log.Debug(ctx, "snapshot saved")
	return nil
}

func (s *Store) requireSellerLocked() error {
	if s.currentUser == nil {
		return ErrNoCurrentUser
	}
	if !s.currentUser.Role.CanSell() {
		return ErrForbidden
	}
	return nil
}

// canManage reports whether u may edit or delete p.
func canManage(u *domain.User, p domain.Product) bool {
	switch u.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSeller:
		return p.SellerID == u.ID
	case domain.RoleBuyer:
		return false
	default:
		return false
	}
}

// Products lists the catalog in insertion order.
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.snap.Products)
}

func (s *Store) Catalog(f ProductFilter) []domain.Product {
	return FilterProducts(s.Products(), f)
}

func (s *Store) Product(id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := productIndex(s.snap.Products, id)
	if i < 0 {
		return nil, ErrProductNotFound
	}
	p := s.snap.Products[i]
	return &p, nil
}

// Orders lists all orders, most recent first.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.snap.Orders)
}

func (s *Store) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.snap.Users)
}

func (s *Store) findUserByEmailLocked(email string) (domain.User, bool) {
	for _, u := range s.snap.Users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

func (s *Store) snapshotCopyLocked() *domain.Snapshot {
	return &domain.Snapshot{
		Users:    slices.Clone(s.snap.Users),
		Products: slices.Clone(s.snap.Products),
		Orders:   slices.Clone(s.snap.Orders),
	}
}

func (s *Store) persistFailed(ctx context.Context, err error) error {
	s.log.Error(ctx, "persisting marketplace state failed", err)
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// rollbackSnapshot rewrites the last committed snapshot after a later write
// of the same mutation failed.
func (s *Store) rollbackSnapshot(ctx context.Context) {
	if err := s.repo.SaveSnapshot(ctx, s.snap); err != nil {
		s.log.Error(ctx, "snapshot rollback failed", err)
	}
}

func (s *Store) rollbackSession(ctx context.Context) {
	if err := s.repo.SaveSession(ctx, s.currentUser); err != nil {
		s.log.Error(ctx, "session rollback failed", err)
	}
}

func cartIndex(cart []domain.CartItem, productID string) int {
	return slices.IndexFunc(cart, func(it domain.CartItem) bool { return it.ID == productID })
}

func productIndex(products []domain.Product, id string) int {
	return slices.IndexFunc(products, func(p domain.Product) bool { return p.ID == id })
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}

func cloneOrders(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	for i := range orders {
		out[i] = *cloneOrder(&orders[i])
	}
	return out
}
