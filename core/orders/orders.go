package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/skip2/go-qrcode"
	"ministore/core/cart"
	"ministore/core/store"
	"ministore/core/utils"
)

var ErrNotFound = errors.New("order not found")

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit-card"
	PaymentBankTransfer PaymentMethod = "bank-transfer"
	PaymentMobile       PaymentMethod = "mobile"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCreditCard || p == PaymentBankTransfer || p == PaymentMobile
}

const (
	PaymentStatusPaid       = "paid"
	ShippingStatusPreparing = "preparing"
	historyKeyPrefix        = "orders/"
	lastKeyPrefix           = "orders/last/"
	orderNumberPrefix       = "MINI-"
	receiptQRSize           = 256
)

type Shipping struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	AddressDetail string `json:"address_detail"`
	ZipCode       string `json:"zip_code"`
	Phone         string `json:"phone"`
}

func (s Shipping) Validate() error {
	errs := utils.ValidationErrors{}
	errs.Add("shipping.name", utils.ValidateRequired("Recipient name", s.Name))
	errs.Add("shipping.address", utils.ValidateRequired("Address", s.Address))
	errs.Add("shipping.phone", utils.ValidatePhone(s.Phone))
	return errs.Err()
}

type Order struct {
	OrderNumber    string        `json:"order_number"`
	UserID         string        `json:"user_id"`
	Shipping       Shipping      `json:"shipping"`
	Items          []cart.Line   `json:"items"`
	Total          int           `json:"total"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	OrderDate      time.Time     `json:"order_date"`
	PaymentStatus  string        `json:"payment_status"`
	ShippingStatus string        `json:"shipping_status"`
}

// Service simulates checkout: no payment is taken, the order is recorded
// and the cart emptied.
type Service struct {
	mu     sync.Mutex
	docs   store.DocumentsStore
	carts  *cart.Service
	now    func() time.Time
	logger *utils.Logger
}

func NewService(docs store.DocumentsStore, carts *cart.Service, logger *utils.Logger) *Service {
	return &Service{docs: docs, carts: carts, now: time.Now, logger: logger}
}

func (s *Service) history(userID string) *store.Collection[Order] {
	return store.NewCollection(s.docs, historyKeyPrefix+userID, store.CollectionOptions[Order]{Version: "1"}, s.logger)
}

func (s *Service) last(userID string) *store.Record[Order] {
	return store.NewRecord[Order](s.docs, lastKeyPrefix+userID, "1", s.logger)
}

// Checkout turns the cart of cartOwner into an order for userID.
func (s *Service) Checkout(ctx context.Context, userID, cartOwner string, ship Shipping, method PaymentMethod) (*Order, error) {
	ship = trimShipping(ship)
	if method == "" {
		method = PaymentCreditCard
	}
	errs := utils.ValidationErrors{}
	if err := ship.Validate(); err != nil {
		var ve utils.ValidationErrors
		if errors.As(err, &ve) {
			for k, v := range ve {
				errs.Add(k, v)
			}
		}
	}
	if !method.Valid() {
		errs.Add("payment_method", &utils.FieldError{Code: "payment.invalid", Message: "Unknown payment method."})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.carts.Get(ctx, cartOwner)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, cart.ErrEmptyCart
	}
	now := s.now().UTC()
	o := Order{
		OrderNumber:    orderNumberPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		UserID:         userID,
		Shipping:       ship,
		Items:          c.Lines,
		Total:          c.Total(),
		PaymentMethod:  method,
		OrderDate:      now,
		PaymentStatus:  PaymentStatusPaid,
		ShippingStatus: ShippingStatusPreparing,
	}
	hist := s.history(userID)
	items, rev, err := hist.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := hist.Save(ctx, append(items, o), rev); err != nil {
		return nil, err
	}
	rec := s.last(userID)
	_, lastRev, err := rec.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := rec.Save(ctx, o, lastRev); err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, cartOwner); err != nil {
		return nil, fmt.Errorf("clear cart after order %s: %w", o.OrderNumber, err)
	}
	if s.logger != nil {
		s.logger.Printf("orders: %s placed by %s total=%d items=%d", o.OrderNumber, userID, o.Total, c.ItemCount())
	}
	return &o, nil
}

// Last returns the most recent order of userID or nil.
func (s *Service) Last(ctx context.Context, userID string) (*Order, error) {
	o, _, err := s.last(userID).Load(ctx)
	return o, err
}

// History returns the orders of userID, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]Order, error) {
	items, _, err := s.history(userID).Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Order, len(items))
	for i, o := range items {
		out[len(items)-1-i] = o
	}
	return out, nil
}

func (s *Service) Find(ctx context.Context, userID, number string) (*Order, error) {
	items, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range items {
		if o.OrderNumber == number {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, number)
}

// ReceiptQR renders a PNG QR code identifying the order.
func ReceiptQR(o Order) ([]byte, error) {
	payload := fmt.Sprintf("%s|%s|%d|%s", o.OrderNumber, o.UserID, o.Total, o.OrderDate.UTC().Format(time.RFC3339))
	return qrcode.Encode(payload, qrcode.Medium, receiptQRSize)
}

func trimShipping(s Shipping) Shipping {
	s.Name = strings.TrimSpace(s.Name)
	s.Address = strings.TrimSpace(s.Address)
	s.AddressDetail = strings.TrimSpace(s.AddressDetail)
	s.ZipCode = strings.TrimSpace(s.ZipCode)
	s.Phone = strings.TrimSpace(s.Phone)
	return s
}
