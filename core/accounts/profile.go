package accounts

import (
	"context"
	"strings"

	"ministore/core/auth"
	"ministore/core/utils"
)

// Register validates a self-registration and stores it as a pending member.
func (d *Directory) Register(ctx context.Context, in Registration) (*Account, error) {
	settings, err := d.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	in.ID = strings.TrimSpace(in.ID)
	errs := utils.ValidationErrors{}
	errs.Add("id", utils.ValidateIdentifier(in.ID))
	errs.Add("password", utils.ValidatePassword(in.Password, settings.MinPasswordLength))
	if in.Password != in.ConfirmPassword {
		errs.Add("confirm_password", &utils.FieldError{Code: "password.mismatch", Message: "Passwords do not match."})
	}
	errs.Add("name", utils.ValidateRequired("Name", in.Name))
	errs.Add("email", utils.ValidateEmail(in.Email))
	errs.Add("phone", utils.ValidatePhone(in.Phone))
	errs.Add("address", utils.ValidateRequired("Address", in.Address))
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return d.Add(ctx, NewAccount{
		ID:            in.ID,
		Password:      in.Password,
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		Phone:         in.Phone,
		Address:       strings.TrimSpace(in.Address),
		AddressDetail: strings.TrimSpace(in.AddressDetail),
		ZipCode:       strings.TrimSpace(in.ZipCode),
		Role:          RoleMember,
		Status:        StatusPending,
	})
}

func (d *Directory) UpdateProfile(ctx context.Context, id string, p Profile) (*Account, error) {
	errs := utils.ValidationErrors{}
	errs.Add("name", utils.ValidateRequired("Name", p.Name))
	errs.Add("email", utils.ValidateEmail(p.Email))
	errs.Add("phone", utils.ValidatePhone(p.Phone))
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return d.mutate(ctx, id, func(a *Account) error {
		a.Name = strings.TrimSpace(p.Name)
		a.Email = strings.TrimSpace(p.Email)
		a.Phone = p.Phone
		a.Address = strings.TrimSpace(p.Address)
		a.AddressDetail = strings.TrimSpace(p.AddressDetail)
		a.ZipCode = strings.TrimSpace(p.ZipCode)
		return nil
	})
}

// ChangePassword replaces the credential after verifying the current one and
// clears the forced-change flag.
func (d *Directory) ChangePassword(ctx context.Context, id, current, next string) (*Account, error) {
	settings, err := d.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	errs := utils.ValidationErrors{}
	errs.Add("new_password", utils.ValidatePassword(next, settings.MinPasswordLength))
	if err := errs.Err(); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(next, d.pepper)
	if err != nil {
		return nil, err
	}
	return d.mutate(ctx, id, func(a *Account) error {
		ok, _ := auth.VerifyPassword(current, d.pepper, a.Password)
		if !ok {
			return utils.ValidationErrors{"current_password": {Code: "password.incorrect", Message: "Current password is incorrect."}}
		}
		a.Password = hash
		a.MustChangePassword = false
		return nil
	})
}
