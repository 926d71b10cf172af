package cart

import (
	"context"
	"sync"

	"ministore/core/catalog"
	"ministore/core/store"
	"ministore/core/utils"
)

const keyPrefix = "cart/"

// Catalog is the part of the catalog the cart needs to turn an add-to-cart
// into a purchase.
type Catalog interface {
	Get(ctx context.Context, id int) (*catalog.Product, error)
	RecordPurchase(ctx context.Context, id int) (*catalog.Product, error)
}

// Service persists one cart per owner key.
type Service struct {
	mu     sync.Mutex
	docs   store.DocumentsStore
	logger *utils.Logger
}

func NewService(docs store.DocumentsStore, logger *utils.Logger) *Service {
	return &Service{docs: docs, logger: logger}
}

func (s *Service) record(owner string) *store.Record[Cart] {
	return store.NewRecord[Cart](s.docs, keyPrefix+owner, "1", s.logger)
}

func (s *Service) Get(ctx context.Context, owner string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, _, err := s.load(ctx, owner)
	return c, err
}

func (s *Service) Add(ctx context.Context, owner string, p catalog.Product) (Cart, error) {
	return s.update(ctx, owner, func(c *Cart) error { return c.Add(p) })
}

// AddFromCatalog adds the snapshot of product id taken before the purchase,
// so the line caps at the stock the customer saw, and then records the
// purchase. The cart is written first; if the purchase cannot be recorded the
// cart is put back as it was, so stock never leaves the catalog without
// reaching a cart.
func (s *Service) AddFromCatalog(ctx context.Context, owner string, products Catalog, id int) (Cart, error) {
	before, err := products.Get(ctx, id)
	if err != nil {
		return Cart{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, rev, err := s.load(ctx, owner)
	if err != nil {
		return Cart{}, err
	}
	prev := Cart{Lines: append([]Line(nil), c.Lines...)}
	if err := c.Add(*before); err != nil {
		return Cart{}, err
	}
	rec := s.record(owner)
	newRev, err := rec.Save(ctx, c, rev)
	if err != nil {
		return Cart{}, err
	}
	if _, err := products.RecordPurchase(ctx, id); err != nil {
		if _, rerr := rec.Save(ctx, prev, newRev); rerr != nil && s.logger != nil {
			s.logger.Errorf("cart %s: restore after failed purchase of %d: %v", owner, id, rerr)
		}
		return Cart{}, err
	}
	return c, nil
}

func (s *Service) SetQuantity(ctx context.Context, owner string, productID, q int) (Cart, error) {
	return s.update(ctx, owner, func(c *Cart) error { return c.SetQuantity(productID, q) })
}

func (s *Service) Remove(ctx context.Context, owner string, productID int) (Cart, error) {
	return s.update(ctx, owner, func(c *Cart) error {
		c.Remove(productID)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(owner).Delete(ctx)
}

func (s *Service) update(ctx context.Context, owner string, fn func(c *Cart) error) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, rev, err := s.load(ctx, owner)
	if err != nil {
		return Cart{}, err
	}
	if err := fn(&c); err != nil {
		return Cart{}, err
	}
	if _, err := s.record(owner).Save(ctx, c, rev); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *Service) load(ctx context.Context, owner string) (Cart, int64, error) {
	c, rev, err := s.record(owner).Load(ctx)
	if err != nil {
		return Cart{}, 0, err
	}
	if c == nil {
		return Cart{}, rev, nil
	}
	return *c, rev, nil
}
