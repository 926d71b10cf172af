package handlers

import (
	"net/http"

	"ministore/core/catalog"
	"ministore/core/utils"
)

type ProductsHandler struct {
	catalog *catalog.Store
	logger  *utils.Logger
}

func NewProductsHandler(c *catalog.Store, logger *utils.Logger) *ProductsHandler {
	return &ProductsHandler{catalog: c, logger: logger}
}

func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.catalog.Query(r.Context(), catalog.Query{
		Search:   q.Get("search"),
		Category: catalog.Category(q.Get("category")),
		Sort:     catalog.ParseSort(q.Get("sort")),
		Page:     queryInt(r, "page", 1),
		PerPage:  queryInt(r, "per_page", catalog.StorefrontPerPage),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
