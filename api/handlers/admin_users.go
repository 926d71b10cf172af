package handlers

import (
	"context"
	"net/http"
	"strings"

	"ministore/core/accounts"
	"ministore/core/utils"
)

const adminUsersPerPage = 30

type AdminUsersHandler struct {
	dir    *accounts.Directory
	logger *utils.Logger
}

func NewAdminUsersHandler(dir *accounts.Directory, logger *utils.Logger) *AdminUsersHandler {
	return &AdminUsersHandler{dir: dir, logger: logger}
}

type createUserRequest struct {
	ID            string          `json:"id"`
	Password      string          `json:"password"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	AddressDetail string          `json:"address_detail"`
	ZipCode       string          `json:"zip_code"`
	Role          accounts.Role   `json:"role"`
	Status        accounts.Status `json:"status"`
}

type updateUserRequest struct {
	Name          *string        `json:"name"`
	Email         *string        `json:"email"`
	Phone         *string        `json:"phone"`
	Address       *string        `json:"address"`
	AddressDetail *string        `json:"address_detail"`
	ZipCode       *string        `json:"zip_code"`
	Role          *accounts.Role `json:"role"`
}

func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.dir.Query(r.Context(), accounts.Filter{
		Statuses: accounts.ParseStatusFilter(r.URL.Query().Get("status")),
		Keyword:  r.URL.Query().Get("q"),
		Page:     queryInt(r, "page", 1),
		PerPage:  queryInt(r, "per_page", adminUsersPerPage),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *AdminUsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	acc, err := h.dir.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// Create adds an account on behalf of an administrator. Unlike
// self-registration the account is active unless a status is given.
func (h *AdminUsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	settings, err := h.dir.Settings().Get(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	errs := utils.ValidationErrors{}
	errs.Add("id", utils.ValidateIdentifier(strings.TrimSpace(req.ID)))
	errs.Add("password", utils.ValidatePassword(req.Password, settings.MinPasswordLength))
	errs.Add("name", utils.ValidateRequired("Name", req.Name))
	errs.Add("email", utils.ValidateEmail(req.Email))
	if req.Role != "" && !req.Role.Valid() {
		errs.Add("role", &utils.FieldError{Code: "role.invalid", Message: "Unknown role."})
	}
	if req.Status != "" && !req.Status.Valid() {
		errs.Add("status", &utils.FieldError{Code: "status.invalid", Message: "Unknown status."})
	}
	if err := errs.Err(); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if req.Status == "" {
		req.Status = accounts.StatusActive
	}
	acc, err := h.dir.Add(r.Context(), accounts.NewAccount{
		ID:            req.ID,
		Password:      req.Password,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		AddressDetail: req.AddressDetail,
		ZipCode:       req.ZipCode,
		Role:          req.Role,
		Status:        req.Status,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

func (h *AdminUsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	errs := utils.ValidationErrors{}
	if req.Email != nil {
		errs.Add("email", utils.ValidateEmail(*req.Email))
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		errs.Add("phone", utils.ValidatePhone(*req.Phone))
	}
	if req.Role != nil && !req.Role.Valid() {
		errs.Add("role", &utils.FieldError{Code: "role.invalid", Message: "Unknown role."})
	}
	if err := errs.Err(); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if req.Role != nil && *req.Role != accounts.RoleAdministrator && h.dir.IsProtected(id) {
		writeServiceError(w, h.logger, accounts.ErrProtectedAccount)
		return
	}
	acc, err := h.dir.Update(r.Context(), id, accounts.Patch{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		AddressDetail: req.AddressDetail,
		ZipCode:       req.ZipCode,
		Role:          req.Role,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.Remove(r.Context(), urlParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminUsersHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dir.Activate)
}

func (h *AdminUsersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dir.Deactivate)
}

func (h *AdminUsersHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dir.Lock)
}

func (h *AdminUsersHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dir.Unlock)
}

func (h *AdminUsersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dir.Approve)
}

func (h *AdminUsersHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dir.Reject)
}

// ResetPassword returns the temporary password once; it is not stored in
// clear text anywhere.
func (h *AdminUsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	temp, acc, err := h.dir.ResetPassword(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"temporary_password": temp, "account": acc})
}

// Registrations lists sign-up requests filtered by status, pending by
// default, together with the per-status counts.
func (h *AdminUsersHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if strings.TrimSpace(status) == "" {
		status = string(accounts.StatusPending)
	}
	page, err := h.dir.Query(r.Context(), accounts.Filter{
		Statuses: accounts.ParseStatusFilter(status),
		Keyword:  r.URL.Query().Get("q"),
		Page:     queryInt(r, "page", 1),
		PerPage:  queryInt(r, "per_page", adminUsersPerPage),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	counts, err := h.dir.Counts(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page, "counts": counts})
}

func (h *AdminUsersHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) (*accounts.Account, error)) {
	acc, err := fn(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}
