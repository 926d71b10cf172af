package orders

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ministore/config"
	"ministore/core/cart"
	"ministore/core/catalog"
	"ministore/core/store"
	"ministore/core/utils"
)

func mustTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.AppConfig{DBPath: filepath.Join(t.TempDir(), "orders.db")}
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

var testShipping = Shipping{Name: "Kim", Address: "1 Main St", ZipCode: "06611", Phone: "010-1111-1111"}

func TestCheckoutRecordsOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	docs := store.NewDocumentsStore(mustTestDB(t))
	carts := cart.NewService(docs, nil)
	svc := NewService(docs, carts, nil)
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seed := catalog.DefaultSeed()
	_, _ = carts.Add(ctx, "cart-1", seed[0])
	_, _ = carts.Add(ctx, "cart-1", seed[0])
	_, _ = carts.Add(ctx, "cart-1", seed[14])

	o, err := svc.Checkout(ctx, "aaa", "cart-1", testShipping, "")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.OrderNumber != "MINI-1780300800000" {
		t.Fatalf("unexpected order number %s", o.OrderNumber)
	}
	if o.Total != 2*25000+32000 || len(o.Items) != 2 {
		t.Fatalf("unexpected totals %+v", o)
	}
	if o.PaymentMethod != PaymentCreditCard || o.PaymentStatus != PaymentStatusPaid || o.ShippingStatus != ShippingStatusPreparing {
		t.Fatalf("unexpected statuses %+v", o)
	}
	c, _ := carts.Get(ctx, "cart-1")
	if !c.Empty() {
		t.Fatalf("cart must be cleared after checkout")
	}
	last, err := svc.Last(ctx, "aaa")
	if err != nil || last == nil || last.OrderNumber != o.OrderNumber {
		t.Fatalf("last order: %+v %v", last, err)
	}

	now = now.Add(time.Minute)
	_, _ = carts.Add(ctx, "cart-1", seed[1])
	second, err := svc.Checkout(ctx, "aaa", "cart-1", testShipping, PaymentMobile)
	if err != nil {
		t.Fatalf("second checkout: %v", err)
	}
	hist, err := svc.History(ctx, "aaa")
	if err != nil || len(hist) != 2 || hist[0].OrderNumber != second.OrderNumber {
		t.Fatalf("history must be newest first: %+v %v", hist, err)
	}
	if found, err := svc.Find(ctx, "aaa", o.OrderNumber); err != nil || found.Total != o.Total {
		t.Fatalf("find: %+v %v", found, err)
	}
	if _, err := svc.Find(ctx, "bbb", o.OrderNumber); !errors.Is(err, ErrNotFound) {
		t.Fatalf("orders must be per account, got %v", err)
	}
}

func TestCheckoutRejectsEmptyCartAndBadInput(t *testing.T) {
	ctx := context.Background()
	docs := store.NewDocumentsStore(mustTestDB(t))
	carts := cart.NewService(docs, nil)
	svc := NewService(docs, carts, nil)
	if _, err := svc.Checkout(ctx, "aaa", "empty", testShipping, PaymentCreditCard); !errors.Is(err, cart.ErrEmptyCart) {
		t.Fatalf("expected empty cart, got %v", err)
	}
	_, err := svc.Checkout(ctx, "aaa", "empty", Shipping{Phone: "nope"}, "cash")
	var ve utils.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, f := range []string{"shipping.name", "shipping.address", "shipping.phone", "payment_method"} {
		if ve[f] == nil {
			t.Fatalf("missing %s in %v", f, ve)
		}
	}
	if last, _ := svc.Last(ctx, "aaa"); last != nil {
		t.Fatalf("failed checkout stored an order")
	}
}

func TestReceiptQR(t *testing.T) {
	png, err := ReceiptQR(Order{OrderNumber: "MINI-1", UserID: "aaa", Total: 1000, OrderDate: time.Unix(0, 0)})
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("expected PNG output")
	}
}
