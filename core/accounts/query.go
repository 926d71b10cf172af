package accounts

import (
	"context"
	"strings"

	"ministore/core/utils"
)

type Filter struct {
	Statuses []Status
	// Keyword matches id, name or email, case-insensitively.
	Keyword string
	Page    int
	PerPage int
}

func (d *Directory) Query(ctx context.Context, f Filter) (utils.Page[Account], error) {
	all, err := d.List(ctx)
	if err != nil {
		return utils.Page[Account]{}, err
	}
	kw := strings.ToLower(strings.TrimSpace(f.Keyword))
	matched := make([]Account, 0, len(all))
	for _, a := range all {
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, a.Status) {
			continue
		}
		if kw != "" &&
			!strings.Contains(strings.ToLower(a.ID), kw) &&
			!strings.Contains(strings.ToLower(a.Name), kw) &&
			!strings.Contains(strings.ToLower(a.Email), kw) {
			continue
		}
		matched = append(matched, a)
	}
	return utils.Paginate(matched, f.Page, f.PerPage), nil
}

type RegistrationCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func (d *Directory) Counts(ctx context.Context) (RegistrationCounts, error) {
	all, err := d.List(ctx)
	if err != nil {
		return RegistrationCounts{}, err
	}
	var c RegistrationCounts
	for _, a := range all {
		switch {
		case a.Status == StatusPending:
			c.Pending++
		case a.Status == StatusRejected:
			c.Rejected++
		case a.Status.Approved():
			c.Approved++
		}
	}
	return c, nil
}

// ParseStatusFilter maps the admin screen filter names onto statuses. An
// unknown or empty name selects everything.
func ParseStatusFilter(name string) []Status {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pending":
		return []Status{StatusPending}
	case "approved":
		return []Status{StatusActive, StatusLocked}
	case "active":
		return []Status{StatusActive}
	case "inactive", "deactivated":
		return []Status{StatusDeactivated}
	case "locked":
		return []Status{StatusLocked}
	case "rejected":
		return []Status{StatusRejected}
	}
	return nil
}

func containsStatus(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
