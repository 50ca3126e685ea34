package shipping

import (
	"testing"

	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
)

func validDetails() Details {
	return Details{
		FirstName:   "Jana",
		LastName:    "Nováková",
		Address:     "Dlouhá 12",
		City:        "Ústí nad Labem",
		Zipcode:     "40001",
		PhoneNumber: "+420777123456",
	}
}

func TestValidate_NoViolations(t *testing.T) {
	if err := Validate(validDetails()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	details := validDetails()
	details.FirstName = "J"
	details.LastName = "N0vak"
	details.Zipcode = "4000"
	details.PhoneNumber = "12345"
	details.Address = ""

	err := Validate(details)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected pkgerrors.Error, got %T", err)
	}
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected code %s, got %s", pkgerrors.CodeValidation, typed.Code())
	}
	details2, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details2["violations"].([]FieldViolation)
	if !ok {
		t.Fatalf("expected violations slice, got %T", details2["violations"])
	}

	want := []string{"first_name", "last_name", "address", "zipcode", "phone_number"}
	if len(violations) != len(want) {
		t.Fatalf("expected %d violations, got %+v", len(want), violations)
	}
	for i, field := range want {
		if violations[i].Field != field {
			t.Fatalf("violation %d: expected field %s, got %s", i, field, violations[i].Field)
		}
	}
}

func TestValidate_PhoneFormats(t *testing.T) {
	cases := map[string]bool{
		"777123456":       true,
		"+420777123456":   true,
		"77712345":        false,
		"+42 0777123456":  false,
		"+4207771234567x": false,
	}
	for phone, ok := range cases {
		details := validDetails()
		details.PhoneNumber = phone
		err := Validate(details)
		if ok && err != nil {
			t.Fatalf("phone %q: expected valid, got %v", phone, err)
		}
		if !ok && err == nil {
			t.Fatalf("phone %q: expected invalid", phone)
		}
	}
}

func TestNormalizeTrimsFields(t *testing.T) {
	got := Details{FirstName: "  Jana ", Zipcode: " 40001"}.Normalize()
	if got.FirstName != "Jana" || got.Zipcode != "40001" {
		t.Fatalf("unexpected normalized details %+v", got)
	}
}
