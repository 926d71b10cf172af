package handlers

import (
	"net/http"
	"time"

	"ministore/core/accounts"
	"ministore/core/activity"
	"ministore/core/catalog"
	"ministore/core/rbac"
	"ministore/core/session"
	"ministore/core/utils"
)

type AdminHandler struct {
	dir      *accounts.Directory
	catalog  *catalog.Store
	activity *activity.Log
	policy   *rbac.Policy
	loc      *time.Location
	logger   *utils.Logger
}

func NewAdminHandler(dir *accounts.Directory, c *catalog.Store, log *activity.Log, policy *rbac.Policy, logger *utils.Logger) *AdminHandler {
	return &AdminHandler{dir: dir, catalog: c, activity: log, policy: policy, loc: time.Local, logger: logger}
}

type roleView struct {
	Name        string            `json:"name"`
	Permissions []rbac.Permission `json:"permissions"`
}

// Roles lists every role with its effective permissions, inherited ones
// included, next to the full permission catalogue.
func (h *AdminHandler) Roles(w http.ResponseWriter, r *http.Request) {
	names := h.policy.Roles()
	out := make([]roleView, 0, len(names))
	for _, name := range names {
		out = append(out, roleView{Name: name, Permissions: h.policy.PermissionsForRoles([]string{name})})
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": out, "permissions": rbac.AllPermissions()})
}

type deleteProductRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.catalog.Query(r.Context(), catalog.Query{
		Search:   q.Get("search"),
		Category: catalog.Category(q.Get("category")),
		Sort:     catalog.ParseSort(q.Get("sort")),
		Page:     queryInt(r, "page", 1),
		PerPage:  queryInt(r, "per_page", catalog.AdminPerPage),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var d catalog.Draft
	if !decodeJSON(w, r, &d) {
		return
	}
	p, err := h.catalog.Add(r.Context(), d)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var p catalog.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = id
	out, err := h.catalog.Update(r.Context(), p)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteProduct requires the acting administrator to re-enter their
// password. The check has no lockout side effects.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req deleteProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	snap := session.FromContext(r.Context())
	ok, err := h.dir.VerifyPassword(r.Context(), snap.Account.ID, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !ok {
		errs := utils.ValidationErrors{}
		errs.Add("password", &utils.FieldError{Code: "password.incorrect", Message: "Password is incorrect."})
		writeJSON(w, http.StatusForbidden, map[string]any{"errors": errs.Messages()})
		return
	}
	if err := h.catalog.Remove(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.logger.Printf("product %d removed by %s", id, snap.Account.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.activity.Query(r.Context(), activity.Query{
		User:    q.Get("user"),
		Action:  activity.Action(q.Get("action")),
		From:    q.Get("from"),
		To:      q.Get("to"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", activity.DefaultPerPage),
	}, h.loc)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *AdminHandler) SecuritySettings(w http.ResponseWriter, r *http.Request) {
	cur, err := h.dir.Settings().Get(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

func (h *AdminHandler) SaveSecuritySettings(w http.ResponseWriter, r *http.Request) {
	var patch accounts.SettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	cur, err := h.dir.Settings().Save(r.Context(), patch)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cur)
}
