package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"ministore/config"
	"ministore/core/store"
	"ministore/core/utils"
)

func mustTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.AppConfig{DBPath: filepath.Join(t.TempDir(), "catalog.db")}
	logger := utils.NewDiscardLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(store.NewDocumentsStore(mustTestDB(t)), DefaultSeed(), utils.NewDiscardLogger())
}

func intPtr(v int) *int { return &v }

func TestSeedCatalog(t *testing.T) {
	s := newTestStore(t)
	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 25 {
		t.Fatalf("expected 25 seed products, got %d", len(items))
	}
	for _, p := range items {
		if err := p.Validate(); err != nil {
			t.Fatalf("seed product %d invalid: %v", p.ID, err)
		}
	}
}

func TestAddAssignsNextIDAndDefaultStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p, err := s.Add(ctx, Draft{Name: "Canvas Tote", Price: 12000, Category: CategoryClothing, Rating: 4.26})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.ID != 26 || p.Stock != 10 || p.Rating != 4.3 {
		t.Fatalf("unexpected product %+v", p)
	}
	if err := s.Remove(ctx, 3); err != nil {
		t.Fatalf("remove: %v", err)
	}
	q, err := s.Add(ctx, Draft{Name: "Zero Stock", Price: 1, Category: CategoryBooks, Stock: intPtr(0)})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if q.ID != 27 || q.Stock != 0 {
		t.Fatalf("explicit zero stock must be kept and id must be max+1: %+v", q)
	}
	_, err = s.Add(ctx, Draft{Name: "", Price: -1, Category: "toys", Rating: 7})
	var ve utils.ValidationErrors
	if !errors.As(err, &ve) || len(ve) != 3 || ve["rating"] != nil {
		t.Fatalf("expected name, price and category errors, got %v", err)
	}
}

func TestRatingClippedToRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	high, err := s.Add(ctx, Draft{Name: "Overrated", Price: 1000, Category: CategoryBooks, Rating: 7.2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if high.Rating != 5 {
		t.Fatalf("expected rating clipped to 5, got %v", high.Rating)
	}
	high.Rating = -2
	low, err := s.Update(ctx, *high)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if low.Rating != 0 {
		t.Fatalf("expected rating clipped to 0, got %v", low.Rating)
	}
}

func TestQueryEmptyResultIsFirstPage(t *testing.T) {
	s := newTestStore(t)
	page, err := s.Query(context.Background(), Query{Search: "zzz", Page: 3})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page.Page != 1 || page.TotalPages != 0 || page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("unexpected empty page %+v", page)
	}
}

func TestUpdateAndRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p, _ := s.Get(ctx, 1)
	p.Price = 99000
	p.Name = "  Renamed Tee "
	got, err := s.Update(ctx, *p)
	if err != nil || got.Name != "Renamed Tee" || got.Price != 99000 {
		t.Fatalf("update: %+v %v", got, err)
	}
	if _, err := s.Update(ctx, Product{ID: 999, Name: "x", Category: CategoryBooks}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.Remove(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove(ctx, 1); err != nil {
		t.Fatalf("remove must be idempotent: %v", err)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected removed product, got %v", err)
	}
}

func TestRecordPurchase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p, err := s.Add(ctx, Draft{Name: "Last One", Price: 5000, Category: CategoryBooks, Rating: 4.95, Stock: intPtr(1)})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	bought, err := s.RecordPurchase(ctx, p.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if bought.Stock != 0 || bought.Rating != 5.0 {
		t.Fatalf("expected stock 0 and rating capped at 5, got %+v", bought)
	}
	if _, err := s.RecordPurchase(ctx, p.ID); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}
	after, _ := s.Get(ctx, p.ID)
	if after.Stock != 0 || after.Rating != 5.0 {
		t.Fatalf("purchase at zero stock must be a no-op: %+v", after)
	}

	tee, _ := s.RecordPurchase(ctx, 1)
	if tee.Stock != 9 || tee.Rating != 4.6 {
		t.Fatalf("expected 9 / 4.6, got %+v", tee)
	}
	if _, err := s.RecordPurchase(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuerySearchSortPaginate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page, err := s.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page.Total != 25 || page.TotalPages != 2 || len(page.Items) != 20 || page.Items[0].ID != 1 {
		t.Fatalf("unexpected default page %+v", page)
	}
	page, _ = s.Query(ctx, Query{Page: 2})
	if len(page.Items) != 5 || page.Items[0].ID != 21 {
		t.Fatalf("unexpected second page %+v", page.Items)
	}

	page, _ = s.Query(ctx, Query{Category: CategoryElectronics, Sort: SortPriceDesc})
	if page.Total != 9 || page.Items[0].ID != 10 {
		t.Fatalf("electronics by price desc: %+v", page.Items)
	}
	page, _ = s.Query(ctx, Query{Sort: SortPriceAsc, PerPage: 3})
	if page.Items[0].Price > page.Items[1].Price || page.Items[1].Price > page.Items[2].Price {
		t.Fatalf("price asc broken: %+v", page.Items)
	}
	page, _ = s.Query(ctx, Query{Search: "JACKET"})
	if page.Total != 2 {
		t.Fatalf("expected 2 jackets, got %+v", page.Items)
	}
	page, _ = s.Query(ctx, Query{Sort: ParseSort("popularity"), PerPage: AdminPerPage})
	if page.Items[0].Rating != 4.9 || len(page.Items) != 25 {
		t.Fatalf("popularity: %+v", page.Items[0])
	}
	if ParseSort("bogus") != SortNewest {
		t.Fatalf("unknown sort must fall back to newest")
	}
}
