package accounts

import (
	"context"
	"fmt"

	"ministore/core/auth"
	"ministore/core/utils"
)

const tempPasswordLength = 10

// Approve activates a pending registration.
func (d *Directory) Approve(ctx context.Context, id string) (*Account, error) {
	return d.transition(ctx, id, StatusActive, StatusPending)
}

func (d *Directory) Reject(ctx context.Context, id string) (*Account, error) {
	return d.transition(ctx, id, StatusRejected, StatusPending)
}

func (d *Directory) Activate(ctx context.Context, id string) (*Account, error) {
	return d.transition(ctx, id, StatusActive, StatusDeactivated)
}

func (d *Directory) Deactivate(ctx context.Context, id string) (*Account, error) {
	if d.IsProtected(id) {
		return nil, fmt.Errorf("%w: %s", ErrProtectedAccount, id)
	}
	return d.transition(ctx, id, StatusDeactivated, StatusActive, StatusLocked)
}

func (d *Directory) Lock(ctx context.Context, id string) (*Account, error) {
	if d.IsProtected(id) {
		return nil, fmt.Errorf("%w: %s", ErrProtectedAccount, id)
	}
	return d.transition(ctx, id, StatusLocked, StatusActive)
}

// Unlock clears the lock and the failure counter. On accounts that are not
// locked only the counter is reset.
func (d *Directory) Unlock(ctx context.Context, id string) (*Account, error) {
	a, err := d.mutate(ctx, id, func(a *Account) error {
		if a.Status == StatusLocked {
			a.Status = StatusActive
		}
		a.FailedLoginAttempts = 0
		return nil
	})
	if err == nil && d.logger != nil {
		d.logger.Printf("accounts: unlocked %s", id)
	}
	return a, err
}

// ResetPassword replaces the credential with a random temporary password
// that must be changed at next login. The temporary password is returned
// once and never stored in clear.
func (d *Directory) ResetPassword(ctx context.Context, id string) (string, *Account, error) {
	if d.IsProtected(id) {
		return "", nil, fmt.Errorf("%w: %s", ErrProtectedAccount, id)
	}
	temp, err := utils.RandPassword(tempPasswordLength)
	if err != nil {
		return "", nil, err
	}
	a, err := d.setPassword(ctx, id, temp, true)
	if err != nil {
		return "", nil, err
	}
	return temp, a, nil
}

// SetPassword is the operator path used by the CLI; it is not subject to
// root administrator protection.
func (d *Directory) SetPassword(ctx context.Context, id, password string, mustChange bool) (*Account, error) {
	settings, err := d.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if fe := utils.ValidatePassword(password, settings.MinPasswordLength); fe != nil {
		errs := utils.ValidationErrors{}
		errs.Add("password", fe)
		return nil, errs
	}
	return d.setPassword(ctx, id, password, mustChange)
}

func (d *Directory) setPassword(ctx context.Context, id, password string, mustChange bool) (*Account, error) {
	hash, err := auth.HashPassword(password, d.pepper)
	if err != nil {
		return nil, err
	}
	return d.mutate(ctx, id, func(a *Account) error {
		a.Password = hash
		a.MustChangePassword = mustChange
		return nil
	})
}

func (d *Directory) transition(ctx context.Context, id string, to Status, from ...Status) (*Account, error) {
	a, err := d.mutate(ctx, id, func(a *Account) error {
		for _, f := range from {
			if a.Status == f {
				a.Status = to
				if to == StatusActive {
					a.FailedLoginAttempts = 0
				}
				return nil
			}
		}
		return fmt.Errorf("%w: %s is %s, cannot become %s", ErrInvalidTransition, a.ID, a.Status, to)
	})
	if err == nil && d.logger != nil {
		d.logger.Printf("accounts: %s -> %s", id, to)
	}
	return a, err
}
