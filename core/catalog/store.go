package catalog

import (
	"context"
	"fmt"
	"math"
	"sync"

	"ministore/core/store"
	"ministore/core/utils"
)

const (
	collectionKey     = "products"
	collectionVersion = "1"
	maxRating         = 5.0
)

// Store owns the product collection.
type Store struct {
	mu     sync.Mutex
	coll   *store.Collection[Product]
	logger *utils.Logger
}

func NewStore(docs store.DocumentsStore, seed []Product, logger *utils.Logger) *Store {
	return &Store{
		coll: store.NewCollection(docs, collectionKey, store.CollectionOptions[Product]{
			Version: collectionVersion,
			Seed: func() ([]Product, error) {
				out := make([]Product, len(seed))
				copy(out, seed)
				return out, nil
			},
			Validate: func(p Product) error { return p.Validate() },
		}, logger),
		logger: logger,
	}
}

func (s *Store) List(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _, err := s.coll.Load(ctx)
	return items, err
}

func (s *Store) Get(ctx context.Context, id int) (*Product, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	p := items[idx]
	return &p, nil
}

// Add assigns id = max existing id + 1.
func (s *Store) Add(ctx context.Context, d Draft) (*Product, error) {
	stock := defaultStock
	if d.Stock != nil {
		stock = *d.Stock
	}
	p := normalize(Product{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Category:    d.Category,
		Rating:      roundRating(d.Rating),
		Stock:       stock,
	})
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, rev, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	p.ID = maxID(items) + 1
	items = append(items, p)
	if _, err := s.coll.Save(ctx, items, rev); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Printf("catalog: added product %d %q", p.ID, p.Name)
	}
	return &p, nil
}

// Update replaces the product with the same id.
func (s *Store) Update(ctx context.Context, p Product) (*Product, error) {
	p = normalize(p)
	p.Rating = roundRating(p.Rating)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, rev, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, p.ID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, p.ID)
	}
	items[idx] = p
	if _, err := s.coll.Save(ctx, items, rev); err != nil {
		return nil, err
	}
	return &p, nil
}

// Remove is idempotent.
func (s *Store) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, rev, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil
	}
	items = append(items[:idx], items[idx+1:]...)
	if _, err := s.coll.Save(ctx, items, rev); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Printf("catalog: removed product %d", id)
	}
	return nil
}

// RecordPurchase takes one unit out of stock and nudges the rating by 0.1
// toward 5.0. At zero stock nothing changes and ErrOutOfStock is returned.
func (s *Store) RecordPurchase(ctx context.Context, id int) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, rev, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	p := items[idx]
	if p.Stock <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrOutOfStock, id)
	}
	p.Stock--
	p.Rating = roundRating(math.Min(p.Rating+0.1, maxRating))
	items[idx] = p
	if _, err := s.coll.Save(ctx, items, rev); err != nil {
		return nil, err
	}
	return &p, nil
}

// roundRating keeps one decimal.
func roundRating(r float64) float64 {
	return math.Round(r*10) / 10
}

func indexOf(items []Product, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func maxID(items []Product) int {
	max := 0
	for _, p := range items {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}
