package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"manager-account-api/internal/apperror"
)

const passwordSpecials = "!@#$%^&*"

var (
	personNameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	digitsRe     = regexp.MustCompile(`^[0-9]+$`)

	passwordRule = "Password must contain an uppercase letter, a lowercase letter, a number, and a special character"

	// messages is keyed by "<json field>.<rule>".
	messages = map[string]string{
		"name.required":   "Name is required",
		"name.min":        "Name must have at least 3 characters",
		"name.max":        "Name must not exceed 50 characters",
		"name.personname": "Name must only contain alphabets and spaces",

		"email.required": "Email is required",
		"email.email":    "Invalid email format",

		"phone.required": "Mobile number is required",
		"phone.len":      "Mobile number must be exactly 10 digits",
		"phone.digits":   "Mobile number must contain only digits",

		"password.required":       "Password is required",
		"password.min":            "Password must have at least 8 characters",
		"password.max":            "Password must not exceed 30 characters",
		"password.strongpassword": passwordRule,

		"accountType.required": "Account type is required",
		"accountType.eq":       "Account type must be 'manager'",

		"currentPassword.required":       "Old Password is required",
		"currentPassword.min":            "Old Password must have at least 8 characters",
		"currentPassword.max":            "Old Password must not exceed 30 characters",
		"currentPassword.strongpassword": passwordRule,

		"newPassword.required":       "New Password is required",
		"newPassword.min":            "New Password must have at least 8 characters",
		"newPassword.max":            "New Password must not exceed 30 characters",
		"newPassword.strongpassword": "New " + passwordRule,

		"confirmPassword.required":       "Confirm Password is required",
		"confirmPassword.min":            "Confirm Password must have at least 8 characters",
		"confirmPassword.max":            "Confirm Password must not exceed 30 characters",
		"confirmPassword.strongpassword": "Confirm " + passwordRule,

		"id.required":         "Invalid id",
		"statusType.required": "Please mention status type",
		"statusType.oneof":    "Status type must be one of: active, inactive, deleted",
		"sortType.oneof":      "Sort type must be one of: employee, manager",
	}
)

type (
	Validator struct {
		v *playground.Validate
	}

	// Result holds every violated rule of a schema; Message is the first one.
	Result struct {
		OK      bool
		Message string
		Details []apperror.Detail
	}
)

func New() *Validator {
	v := playground.New(playground.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// registration only fails on empty tags or nil funcs
	_ = v.RegisterValidation("personname", func(fl playground.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("digits", func(fl playground.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl playground.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate evaluates every rule of schema, it does not stop at the first failure.
func (val *Validator) Validate(schema any) Result {
	err := val.v.Struct(schema)
	if err == nil {
		return Result{OK: true}
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Result{
			Message: "invalid input",
			Details: []apperror.Detail{{Rule: "schema", Message: err.Error()}},
		}
	}

	res := Result{Details: make([]apperror.Detail, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		res.Details = append(res.Details, apperror.Detail{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
		})
	}
	res.Message = res.Details[0].Message

	return res
}

func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return apperror.Validation(r.Message, r.Details)
}

func messageFor(fe playground.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// IsStrongPassword requires at least one lowercase letter, uppercase letter,
// digit and one of !@#$%^&*, with no other characters, and a length of 8+.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}

	return lower && upper && digit && special
}
