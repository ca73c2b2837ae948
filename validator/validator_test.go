package validator

import (
	"testing"

	apperrors "salescheck/errors"

	"github.com/go-playground/validator/v10"
)

func TestValidateCheckIn(t *testing.T) {
	cases := []struct {
		name, location, company string
		code                    apperrors.ErrorCode
	}{
		{"Asha", "Rajkot", "Acme", ""},
		{"", "Rajkot", "Acme", apperrors.ErrCodeRequiredField},
		{"Asha", "  ", "Acme", apperrors.ErrCodeRequiredField},
		{"Asha", "Rajkot", "", apperrors.ErrCodeRequiredField},
	}
	for _, c := range cases {
		err := ValidateCheckIn(c.name, c.location, c.company)
		if c.code == "" {
			if err != nil {
				t.Fatalf("%+v: unexpected error %v", c, err)
			}
			continue
		}
		if !apperrors.HasCode(err, c.code) {
			t.Fatalf("%+v: expected %s, got %v", c, c.code, err)
		}
	}

	if err := ValidateCheckIn("Asha", "Rajkot", "Acme"); err != nil {
		t.Fatal(err)
	}
	appErr := apperrors.GetAppError(ValidateCheckIn("", "", ""))
	if appErr.Message != RequiredFieldsMessage {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestValidateSignUp(t *testing.T) {
	if err := ValidateSignUp("a@b.co", "secret1", "Asha"); err != nil {
		t.Fatal(err)
	}
	if err := ValidateSignUp("not-an-email", "secret1", "Asha"); !apperrors.HasCode(err, apperrors.ErrCodeInvalidEmail) {
		t.Fatalf("expected INVALID_EMAIL, got %v", err)
	}
	if err := ValidateSignUp("a@b.co", "123", "Asha"); !apperrors.HasCode(err, apperrors.ErrCodeInvalidPassword) {
		t.Fatalf("expected INVALID_PASSWORD, got %v", err)
	}
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		t.Fatal(err)
	}
	if err := v.RegisterValidation("location", validLocation); err != nil {
		t.Fatal(err)
	}

	if err := v.Var("   ", "notblank"); err == nil {
		t.Fatal("blank string should fail notblank")
	}
	if err := v.Var("Client site, Ring Road", "location"); err != nil {
		t.Fatalf("free text location should pass: %v", err)
	}
	if err := v.Var("bad\x00value", "location"); err == nil {
		t.Fatal("control characters should fail location")
	}
}
