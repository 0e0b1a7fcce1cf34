package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"alphaDash/internal/cart"
	"alphaDash/internal/catalog"
	"alphaDash/internal/models"
	"alphaDash/internal/session"
)

type SnackPlatform interface {
	Snacks(ctx context.Context, token string) ([]models.Snack, error)
	Vendors(ctx context.Context, token string, openOnly bool) ([]models.Vendor, error)
	PlaceSnackOrder(ctx context.Context, token string, order models.SnackOrderRequest) (models.SnackOrder, error)
}

type SnackService struct {
	Platform SnackPlatform
	Carts    *cart.Registry
	Events   Publisher
	Logger   Logger
}

// CatalogPage is the filtered catalog plus the filter choices. Categories come
// from the unfiltered list so a narrow filter never hides its own options.
type CatalogPage struct {
	Snacks     []models.Snack  `json:"snacks"`
	Categories []string        `json:"categories"`
	Vendors    []models.Vendor `json:"vendors"`
}

// Catalog fetches snacks and open vendors in parallel. Only the snack fetch
// can fail the page.
func (s *SnackService) Catalog(ctx context.Context, sess *session.Session, f catalog.Filter) (CatalogPage, error) {
	token, err := accessToken(sess)
	if err != nil {
		return CatalogPage{}, err
	}
	var (
		snacks  []models.Snack
		vendors []models.Vendor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snacks, err = s.Platform.Snacks(gctx, token)
		return err
	})
	g.Go(func() error {
		list, err := s.Platform.Vendors(gctx, token, true)
		if err != nil {
			// The catalog is still usable without the vendor filter.
			loggerOrNop(s.Logger).Errorf("fetch vendors: %v", err)
		}
		if list == nil {
			list = []models.Vendor{}
		}
		vendors = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return CatalogPage{}, err
	}
	return CatalogPage{
		Snacks:     catalog.Apply(snacks, f),
		Categories: catalog.Categories(snacks),
		Vendors:    vendors,
	}, nil
}

func (s *SnackService) Cart(sess *session.Session) (cart.Summary, error) {
	if _, err := accessToken(sess); err != nil {
		return cart.Summary{}, err
	}
	return s.Carts.Cart(sess.ID()).Summary(), nil
}

// AddToCart looks the snack up in the live catalog and adds one unit.
func (s *SnackService) AddToCart(ctx context.Context, sess *session.Session, snackID string) (cart.Summary, error) {
	token, err := accessToken(sess)
	if err != nil {
		return cart.Summary{}, err
	}
	if snackID == "" {
		return cart.Summary{}, models.NewValidationError("snackId is required")
	}
	snacks, err := s.Platform.Snacks(ctx, token)
	if err != nil {
		return cart.Summary{}, err
	}

	var found *models.Snack
	for i := range snacks {
		if snacks[i].ID == snackID {
			found = &snacks[i]
			break
		}
	}
	if found == nil {
		return cart.Summary{}, models.ErrSnackNotFound
	}

	c := s.Carts.Cart(sess.ID())
	if err := c.Add(*found); err != nil {
		return cart.Summary{}, err
	}
	return s.cartChanged(sess, c), nil
}

func (s *SnackService) SetQuantity(sess *session.Session, snackID string, quantity int) (cart.Summary, error) {
	if _, err := accessToken(sess); err != nil {
		return cart.Summary{}, err
	}
	c := s.Carts.Cart(sess.ID())
	if err := c.SetQuantity(snackID, quantity); err != nil {
		return cart.Summary{}, err
	}
	return s.cartChanged(sess, c), nil
}

func (s *SnackService) RemoveFromCart(sess *session.Session, snackID string) (cart.Summary, error) {
	if _, err := accessToken(sess); err != nil {
		return cart.Summary{}, err
	}
	c := s.Carts.Cart(sess.ID())
	if !c.Remove(snackID) {
		return cart.Summary{}, models.ErrSnackNotFound
	}
	return s.cartChanged(sess, c), nil
}

// Checkout places one order for the whole cart. The cart survives a failure.
func (s *SnackService) Checkout(ctx context.Context, sess *session.Session) (models.SnackOrder, error) {
	token, err := accessToken(sess)
	if err != nil {
		return models.SnackOrder{}, err
	}
	c := s.Carts.Cart(sess.ID())
	order, err := c.Checkout(ctx, func(ctx context.Context, req models.SnackOrderRequest) (models.SnackOrder, error) {
		return s.Platform.PlaceSnackOrder(ctx, token, req)
	})
	if err != nil {
		loggerOrNop(s.Logger).Errorf("checkout for session %s: %v", sess.ID(), err)
		return models.SnackOrder{}, err
	}

	loggerOrNop(s.Logger).Infof("order %s placed with vendor %s, total %.2f", order.ID, order.VendorID, order.TotalAmount)
	publish(s.Events, sess.ID(), Event{Type: EventOrderPlaced, Data: order})
	s.cartChanged(sess, c)
	return order, nil
}

func (s *SnackService) cartChanged(sess *session.Session, c *cart.Cart) cart.Summary {
	summary := c.Summary()
	publish(s.Events, sess.ID(), Event{Type: EventCartUpdated, Data: summary})
	return summary
}
