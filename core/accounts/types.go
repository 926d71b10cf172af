package accounts

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusActive      Status = "active"
	StatusLocked      Status = "locked"
	StatusRejected    Status = "rejected"
	StatusDeactivated Status = "deactivated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusLocked, StatusRejected, StatusDeactivated:
		return true
	}
	return false
}

// Approved reports whether the registration was accepted at some point.
// A locked account is still an approved one.
func (s Status) Approved() bool {
	return s == StatusActive || s == StatusLocked
}

type Role string

const (
	RoleMember        Role = "member"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdministrator
}

type Account struct {
	ID                  string `json:"id"`
	Password            string `json:"password,omitempty"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	AddressDetail       string `json:"address_detail"`
	ZipCode             string `json:"zip_code"`
	Role                Role   `json:"role"`
	CreatedAt           string `json:"created_at"`
	Status              Status `json:"status"`
	FailedLoginAttempts int    `json:"failed_login_attempts"`
	MustChangePassword  bool   `json:"must_change_password"`
}

// Validate enforces the structural invariants of a stored account.
func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("account: empty id")
	}
	if !a.Status.Valid() {
		return fmt.Errorf("account %s: unknown status %q", a.ID, a.Status)
	}
	if !a.Role.Valid() {
		return fmt.Errorf("account %s: unknown role %q", a.ID, a.Role)
	}
	if a.FailedLoginAttempts < 0 {
		return fmt.Errorf("account %s: negative failed login counter", a.ID)
	}
	return nil
}

// Sanitized returns a copy safe to hand out of the directory.
func (a Account) Sanitized() Account {
	a.Password = ""
	return a
}

func (a Account) IsAdministrator() bool {
	return a.Role == RoleAdministrator
}

// NewAccount is the input of Add. Password is clear text.
type NewAccount struct {
	ID                 string
	Password           string
	Name               string
	Email              string
	Phone              string
	Address            string
	AddressDetail      string
	ZipCode            string
	Role               Role
	Status             Status
	MustChangePassword bool
}

// Patch is a shallow partial update; nil fields are left untouched.
type Patch struct {
	Password            *string
	Name                *string
	Email               *string
	Phone               *string
	Address             *string
	AddressDetail       *string
	ZipCode             *string
	Role                *Role
	Status              *Status
	FailedLoginAttempts *int
	MustChangePassword  *bool
}

type Registration struct {
	ID              string `json:"id"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	AddressDetail   string `json:"address_detail"`
	ZipCode         string `json:"zip_code"`
}

type Profile struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	AddressDetail string `json:"address_detail"`
	ZipCode       string `json:"zip_code"`
}

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonBadCredential Reason = "bad_credential"
	ReasonPending       Reason = "pending_approval"
	ReasonRejected      Reason = "rejected"
	ReasonDeactivated   Reason = "deactivated"
	ReasonLocked        Reason = "locked"
)

// Result is the outcome of Authenticate. Refusals are reported here, never
// as an error.
type Result struct {
	Success           bool     `json:"success"`
	Reason            Reason   `json:"reason,omitempty"`
	Message           string   `json:"message"`
	RemainingAttempts *int     `json:"remaining_attempts,omitempty"`
	Account           *Account `json:"account,omitempty"`
}
