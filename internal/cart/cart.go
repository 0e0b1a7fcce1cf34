package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"alphaDash/internal/models"
)

// DeliveryFee is flat and currently free. No tax is applied.
const DeliveryFee = 0.0

var (
	ErrVendorMismatch   = errors.New("cart: snack belongs to a different vendor")
	ErrEmptyCart        = errors.New("cart: cart is empty")
	ErrUnavailable      = errors.New("cart: snack is not available")
	ErrCheckoutInFlight = errors.New("cart: checkout already in progress")
)

type Line struct {
	Snack    models.Snack `json:"snack"`
	Quantity int          `json:"quantity"`
}

// Summary is the cart as shown in the drawer.
type Summary struct {
	Lines       []Line  `json:"lines"`
	Count       int     `json:"count"`
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
	VendorID    string  `json:"vendorId,omitempty"`
}

// SubmitFunc places an order with the platform.
type SubmitFunc func(ctx context.Context, order models.SnackOrderRequest) (models.SnackOrder, error)

// Cart is an ordered list of lines keyed by snack id. All lines share one vendor.
type Cart struct {
	mu          sync.Mutex
	lines       []Line
	checkingOut bool
}

func New() *Cart {
	return &Cart{}
}

// Add puts one more unit of snack in the cart. An unavailable snack is
// refused; if it is already in the cart its line is marked unavailable so the
// quantity cannot be raised through SetQuantity either.
func (c *Cart) Add(snack models.Snack) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !snack.IsAvailable {
		if i := c.indexOf(snack.ID); i >= 0 {
			c.lines[i].Snack.IsAvailable = false
		}
		return ErrUnavailable
	}
	if i := c.indexOf(snack.ID); i >= 0 {
		c.lines[i].Snack.IsAvailable = true
		c.lines[i].Quantity++
		return nil
	}
	if len(c.lines) > 0 && c.lines[0].Snack.VendorID != snack.VendorID {
		return ErrVendorMismatch
	}
	c.lines = append(c.lines, Line{Snack: snack, Quantity: 1})
	return nil
}

// SetQuantity sets the quantity of a line; n <= 0 removes it. A line known to
// be unavailable may shrink but not grow.
func (c *Cart) SetQuantity(snackID string, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(snackID)
	if i < 0 {
		return models.ErrSnackNotFound
	}
	if n <= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		return nil
	}
	if n > c.lines[i].Quantity && !c.lines[i].Snack.IsAvailable {
		return ErrUnavailable
	}
	c.lines[i].Quantity = n
	return nil
}

// Remove drops a line. It reports whether the line existed.
func (c *Cart) Remove(snackID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(snackID)
	if i < 0 {
		return false
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	return true
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subtotal(c.lines) + DeliveryFee
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return count(c.lines)
}

func (c *Cart) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Summary{
		Lines:       slices.Clone(c.lines),
		Count:       count(c.lines),
		Subtotal:    subtotal(c.lines),
		DeliveryFee: DeliveryFee,
	}
	if s.Lines == nil {
		s.Lines = []Line{}
	}
	s.Total = s.Subtotal + s.DeliveryFee
	if len(c.lines) > 0 {
		s.VendorID = c.lines[0].Snack.VendorID
	}
	return s
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// OrderRequest builds the order for the whole cart.
func (c *Cart) OrderRequest() (models.SnackOrderRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildOrder(c.lines)
}

// Checkout submits the cart once. On success the ordered units are taken out
// of the cart; anything added while the order was in flight stays. On failure
// the cart stays as it was.
func (c *Cart) Checkout(ctx context.Context, submit SubmitFunc) (models.SnackOrder, error) {
	c.mu.Lock()
	if c.checkingOut {
		c.mu.Unlock()
		return models.SnackOrder{}, ErrCheckoutInFlight
	}
	order, err := buildOrder(c.lines)
	if err != nil {
		c.mu.Unlock()
		return models.SnackOrder{}, err
	}
	c.checkingOut = true
	c.mu.Unlock()

	placed, err := submit(ctx, order)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkingOut = false
	if err != nil {
		return models.SnackOrder{}, err
	}
	c.removeOrdered(order.Items)
	return placed, nil
}

func (c *Cart) removeOrdered(items []models.SnackOrderItem) {
	for _, item := range items {
		i := c.indexOf(item.ProductID)
		if i < 0 {
			continue
		}
		if c.lines[i].Quantity <= item.Quantity {
			c.lines = slices.Delete(c.lines, i, i+1)
			continue
		}
		c.lines[i].Quantity -= item.Quantity
	}
	if len(c.lines) == 0 {
		c.lines = nil
	}
}

func (c *Cart) indexOf(snackID string) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.Snack.ID == snackID })
}

func buildOrder(lines []Line) (models.SnackOrderRequest, error) {
	if len(lines) == 0 {
		return models.SnackOrderRequest{}, ErrEmptyCart
	}
	items := make([]models.SnackOrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.SnackOrderItem{
			ProductID: l.Snack.ID,
			Quantity:  l.Quantity,
			Price:     l.Snack.Price,
		})
	}
	return models.SnackOrderRequest{
		Items:       items,
		TotalAmount: subtotal(lines) + DeliveryFee,
		VendorID:    lines[0].Snack.VendorID,
	}, nil
}

func subtotal(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Snack.Price * float64(l.Quantity)
	}
	return total
}

func count(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

type registryEntry struct {
	cart    *Cart
	touched time.Time
}

// Registry holds one cart per session.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*registryEntry
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*registryEntry), now: time.Now}
}

// Cart returns the session's cart, creating it on first use, and marks it as
// touched.
func (r *Registry) Cart(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.carts[sessionID]
	if !ok {
		e = &registryEntry{cart: New()}
		r.carts[sessionID] = e
	}
	e.touched = r.now()
	return e.cart
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.carts, sessionID)
	r.mu.Unlock()
}

// DropIdle forgets carts not touched since before and reports how many went.
func (r *Registry) DropIdle(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.carts {
		if e.touched.Before(before) {
			delete(r.carts, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
