package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func urlParam(r *http.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}

func urlParamInt(r *http.Request, key string) (int, bool) {
	v, err := strconv.Atoi(urlParam(r, key))
	if err != nil {
		return 0, false
	}
	return v, true
}
