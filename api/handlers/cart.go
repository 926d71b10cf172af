package handlers

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"ministore/config"
	"ministore/core/cart"
	"ministore/core/catalog"
	"ministore/core/utils"
)

const cartCookieMaxAge = 30 * 24 * time.Hour

type CartHandler struct {
	cfg     *config.AppConfig
	carts   *cart.Service
	catalog *catalog.Store
	metrics *Metrics
	logger  *utils.Logger
}

func NewCartHandler(cfg *config.AppConfig, carts *cart.Service, c *catalog.Store, metrics *Metrics, logger *utils.Logger) *CartHandler {
	return &CartHandler{cfg: cfg, carts: carts, catalog: c, metrics: metrics, logger: logger}
}

type cartItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// CartOwner returns the cart key carried in the cart cookie. When create is
// set and the request has none, a new key is issued.
func CartOwner(w http.ResponseWriter, r *http.Request, cfg *config.AppConfig, create bool) string {
	if c, err := r.Cookie(CartCookieName); err == nil {
		if id, err := uuid.FromString(c.Value); err == nil {
			return id.String()
		}
	}
	if !create {
		return ""
	}
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int(cartCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   isSecureRequest(r, cfg),
		SameSite: http.SameSiteLaxMode,
	})
	return id.String()
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := CartOwner(w, r, h.cfg, false)
	if owner == "" {
		writeJSON(w, http.StatusOK, cart.Cart{}.Summary())
		return
	}
	c, err := h.carts.Get(r.Context(), owner)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Summary())
}

// AddItem counts as a purchase on the catalog: stock drops and rating rises
// before the line is added.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		writeErrorMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}
	owner := CartOwner(w, r, h.cfg, true)
	if owner == "" {
		writeErrorMessage(w, http.StatusInternalServerError, "server error")
		return
	}
	c, err := h.carts.AddFromCatalog(r.Context(), owner, h.catalog, req.ProductID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.metrics.cartAdd()
	writeJSON(w, http.StatusOK, c.Summary())
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owner := CartOwner(w, r, h.cfg, false)
	if owner == "" {
		writeServiceError(w, h.logger, cart.ErrLineNotFound)
		return
	}
	c, err := h.carts.SetQuantity(r.Context(), owner, id, req.Quantity)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Summary())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}
	owner := CartOwner(w, r, h.cfg, false)
	if owner == "" {
		writeJSON(w, http.StatusOK, cart.Cart{}.Summary())
		return
	}
	c, err := h.carts.Remove(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Summary())
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if owner := CartOwner(w, r, h.cfg, false); owner != "" {
		if err := h.carts.Clear(r.Context(), owner); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, cart.Cart{}.Summary())
}
