package routegroups

import (
	"github.com/go-chi/chi/v5"
	"ministore/api/handlers"
)

type Storefront struct {
	Products *handlers.ProductsHandler
	Cart     *handlers.CartHandler
	Orders   *handlers.OrdersHandler
	Content  *handlers.ContentHandler
}

func RegisterStorefront(apiRouter chi.Router, g Guards, h Storefront) {
	apiRouter.MethodFunc("GET", "/products", h.Products.List)
	apiRouter.MethodFunc("GET", "/products/{id:[0-9]+}", h.Products.Get)

	apiRouter.Route("/cart", func(cart chi.Router) {
		cart.MethodFunc("GET", "/", h.Cart.Get)
		cart.MethodFunc("DELETE", "/", h.Cart.Clear)
		cart.MethodFunc("POST", "/items", h.Cart.AddItem)
		cart.MethodFunc("PUT", "/items/{id:[0-9]+}", h.Cart.SetQuantity)
		cart.MethodFunc("DELETE", "/items/{id:[0-9]+}", h.Cart.RemoveItem)
	})

	apiRouter.MethodFunc("POST", "/checkout", g.SessionPerm("orders.checkout", h.Orders.Checkout))
	apiRouter.Route("/orders", func(orders chi.Router) {
		orders.MethodFunc("GET", "/", g.SessionPerm("orders.view", h.Orders.History))
		orders.MethodFunc("GET", "/last", g.SessionPerm("orders.view", h.Orders.Last))
		orders.MethodFunc("GET", "/{number}/qr", g.SessionPerm("orders.view", h.Orders.ReceiptQR))
	})

	apiRouter.MethodFunc("GET", "/qa", h.Content.QA)
	apiRouter.MethodFunc("POST", "/contact", h.Content.Contact)
	apiRouter.MethodFunc("POST", "/activity/page-view", g.Optional(h.Content.PageView))
}
