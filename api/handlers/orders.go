package handlers

import (
	"net/http"
	"strconv"

	"ministore/config"
	"ministore/core/cart"
	"ministore/core/orders"
	"ministore/core/session"
	"ministore/core/utils"
)

type OrdersHandler struct {
	cfg     *config.AppConfig
	orders  *orders.Service
	metrics *Metrics
	logger  *utils.Logger
}

func NewOrdersHandler(cfg *config.AppConfig, svc *orders.Service, metrics *Metrics, logger *utils.Logger) *OrdersHandler {
	return &OrdersHandler{cfg: cfg, orders: svc, metrics: metrics, logger: logger}
}

type checkoutRequest struct {
	Shipping      orders.Shipping      `json:"shipping"`
	PaymentMethod orders.PaymentMethod `json:"payment_method"`
}

func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owner := CartOwner(w, r, h.cfg, false)
	if owner == "" {
		writeServiceError(w, h.logger, cart.ErrEmptyCart)
		return
	}
	o, err := h.orders.Checkout(r.Context(), snap.Account.ID, owner, req.Shipping, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.metrics.checkout(o.Total)
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) History(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	items, err := h.orders.History(r.Context(), snap.Account.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *OrdersHandler) Last(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	o, err := h.orders.Last(r.Context(), snap.Account.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if o == nil {
		writeServiceError(w, h.logger, orders.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) ReceiptQR(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	o, err := h.orders.Find(r.Context(), snap.Account.ID, urlParam(r, "number"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	png, err := orders.ReceiptQR(*o)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
