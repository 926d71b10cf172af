package accounts

import (
	"context"
	"fmt"

	"ministore/core/auth"
)

const (
	msgInvalidCredentials = "Invalid ID or password."
	msgPending            = "Your registration is waiting for administrator approval."
	msgRejected           = "Your registration was rejected."
	msgDeactivated        = "This account has been deactivated."
	msgLocked             = "This account is locked. Please contact an administrator."
	msgLoginOK            = "Login successful."
)

// Authenticate runs the login state machine for one attempt.
//
// Pending, rejected, deactivated and locked accounts are refused without
// consuming an attempt. For an active account a mismatch increments the
// failure counter and locks the account once it reaches the configured
// maximum; a match resets the counter to zero.
func (d *Directory) Authenticate(ctx context.Context, id, password string) (Result, error) {
	settings, err := d.settings.Get(ctx)
	if err != nil {
		return Result{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	items, rev, err := d.coll.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return refused(ReasonBadCredential, msgInvalidCredentials), nil
	}
	a := &items[idx]
	switch a.Status {
	case StatusPending:
		return refused(ReasonPending, msgPending), nil
	case StatusRejected:
		return refused(ReasonRejected, msgRejected), nil
	case StatusDeactivated:
		return refused(ReasonDeactivated, msgDeactivated), nil
	case StatusLocked:
		return refused(ReasonLocked, msgLocked), nil
	}

	ok, verr := auth.VerifyPassword(password, d.pepper, a.Password)
	if verr != nil {
		if d.logger != nil {
			d.logger.Errorf("accounts: stored credential for %s unreadable: %v", a.ID, verr)
		}
		ok = false
	}
	if ok {
		if a.FailedLoginAttempts != 0 {
			a.FailedLoginAttempts = 0
			if _, err := d.coll.Save(ctx, items, rev); err != nil {
				return Result{}, err
			}
		}
		snap := a.Sanitized()
		return Result{Success: true, Message: msgLoginOK, Account: &snap}, nil
	}

	a.FailedLoginAttempts++
	res := Result{Reason: ReasonBadCredential}
	remaining := settings.MaxLoginAttempts - a.FailedLoginAttempts
	if remaining <= 0 {
		remaining = 0
		a.Status = StatusLocked
		res.Reason = ReasonLocked
		res.Message = fmt.Sprintf("Too many failed login attempts. The account has been locked (limit %d).", settings.MaxLoginAttempts)
		if d.logger != nil {
			d.logger.Warnf("accounts: %s locked after %d failed attempts", a.ID, a.FailedLoginAttempts)
		}
	} else {
		res.Message = fmt.Sprintf("%s (%d attempts remaining)", msgInvalidCredentials, remaining)
	}
	res.RemainingAttempts = &remaining
	if _, err := d.coll.Save(ctx, items, rev); err != nil {
		return Result{}, err
	}
	return res, nil
}

// VerifyPassword checks a credential without touching the failure counter.
// It backs secondary confirmations such as product deletion.
func (d *Directory) VerifyPassword(ctx context.Context, id, password string) (bool, error) {
	d.mu.Lock()
	items, _, err := d.coll.Load(ctx)
	d.mu.Unlock()
	if err != nil {
		return false, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return false, nil
	}
	ok, err := auth.VerifyPassword(password, d.pepper, items[idx].Password)
	if err != nil {
		return false, nil
	}
	return ok, nil
}

func refused(reason Reason, msg string) Result {
	return Result{Reason: reason, Message: msg}
}
