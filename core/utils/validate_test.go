package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	cases := map[string]string{
		"abc":                   "id.too_short",
		"abcd":                  "",
		"user_01":               "",
		"abcdefghijklmnopqrstu": "id.too_long",
		"bad-id":                "id.charset",
		"space id":              "id.charset",
	}
	for in, code := range cases {
		fe := ValidateIdentifier(in)
		if code == "" {
			if fe != nil {
				t.Fatalf("%q: unexpected error %v", in, fe)
			}
			continue
		}
		if fe == nil || fe.Code != code {
			t.Fatalf("%q: expected %s, got %+v", in, code, fe)
		}
	}
}

func TestValidateContactFields(t *testing.T) {
	if ValidateEmail("user@example.com") != nil {
		t.Fatalf("valid email rejected")
	}
	for _, bad := range []string{"user@", "user example@x.com", "a@b", ""} {
		if ValidateEmail(bad) == nil {
			t.Fatalf("invalid email %q accepted", bad)
		}
	}
	for _, ok := range []string{"010-1234-5678", "031-123-4567"} {
		if ValidatePhone(ok) != nil {
			t.Fatalf("valid phone %q rejected", ok)
		}
	}
	for _, bad := range []string{"01012345678", "02-123-4567", "010-12-5678"} {
		if ValidatePhone(bad) == nil {
			t.Fatalf("invalid phone %q accepted", bad)
		}
	}
}

func TestValidatePasswordMinLength(t *testing.T) {
	if fe := ValidatePassword("short", 9); fe == nil || fe.Code != "password.too_short" {
		t.Fatalf("expected too_short, got %+v", fe)
	}
	if fe := ValidatePassword("longenough", 9); fe != nil {
		t.Fatalf("unexpected %+v", fe)
	}
	if fe := ValidatePassword(strings.Repeat("x", 200), 9); fe == nil || fe.Code != "password.too_long" {
		t.Fatalf("expected too_long, got %+v", fe)
	}
}

func TestValidationErrorsCollect(t *testing.T) {
	v := ValidationErrors{}
	if v.Err() != nil {
		t.Fatalf("empty set must be nil error")
	}
	v.Add("email", ValidateEmail("nope"))
	v.Add("phone", nil)
	v.Add("email", &FieldError{Code: "other", Message: "second"})
	err := v.Err()
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(ve) != 1 || ve["email"].Code != "email.invalid" {
		t.Fatalf("unexpected contents %+v", ve)
	}
	if !strings.Contains(err.Error(), "email: Invalid email address.") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
