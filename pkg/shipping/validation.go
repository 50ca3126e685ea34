package shipping

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
)

var (
	lettersRe = regexp.MustCompile(`^\p{L}+$`)
	cityRe    = regexp.MustCompile(`^\p{L}+(?:[ \-]\p{L}+)*$`)
	phoneRe   = regexp.MustCompile(`^\+?\d{9,}$`)
	zipcodeRe = regexp.MustCompile(`^\d{5}$`)
)

const (
	maxNameLen    = 50
	maxPhoneLen   = 14
	maxAddressLen = 100
	maxCityLen    = 25
)

// Details is the delivery contact recorded on an order.
type Details struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Zipcode     string `json:"zipcode"`
	PhoneNumber string `json:"phone_number"`
}

// Normalize trims surrounding whitespace from every field.
func (d Details) Normalize() Details {
	return Details{
		FirstName:   strings.TrimSpace(d.FirstName),
		LastName:    strings.TrimSpace(d.LastName),
		Address:     strings.TrimSpace(d.Address),
		City:        strings.TrimSpace(d.City),
		Zipcode:     strings.TrimSpace(d.Zipcode),
		PhoneNumber: strings.TrimSpace(d.PhoneNumber),
	}
}

// FieldViolation describes a single rejected field.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validate checks the details against the profile rules and reports every violation at once.
func Validate(d Details) error {
	var violations []FieldViolation
	add := func(field, reason string) {
		violations = append(violations, FieldViolation{Field: field, Reason: reason})
	}

	checkName := func(field, value string) {
		switch {
		case value == "":
			add(field, "is required")
		case utf8.RuneCountInString(value) < 2:
			add(field, "must have at least 2 letters")
		case utf8.RuneCountInString(value) > maxNameLen:
			add(field, fmt.Sprintf("must be at most %d characters", maxNameLen))
		case !lettersRe.MatchString(value):
			add(field, "must contain letters only")
		}
	}
	checkName("first_name", d.FirstName)
	checkName("last_name", d.LastName)

	switch {
	case d.Address == "":
		add("address", "is required")
	case utf8.RuneCountInString(d.Address) > maxAddressLen:
		add("address", fmt.Sprintf("must be at most %d characters", maxAddressLen))
	}

	switch {
	case d.City == "":
		add("city", "is required")
	case utf8.RuneCountInString(d.City) > maxCityLen:
		add("city", fmt.Sprintf("must be at most %d characters", maxCityLen))
	case !cityRe.MatchString(d.City):
		add("city", "must contain letters only")
	}

	if !zipcodeRe.MatchString(d.Zipcode) {
		add("zipcode", "must be exactly 5 digits")
	}

	switch {
	case len(d.PhoneNumber) > maxPhoneLen:
		add("phone_number", fmt.Sprintf("must be at most %d characters", maxPhoneLen))
	case !phoneRe.MatchString(d.PhoneNumber):
		add("phone_number", "must be at least 9 digits with an optional leading +")
	}

	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("shipping details invalid for %d field(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
