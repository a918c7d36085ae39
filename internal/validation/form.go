package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Referral sources offered by the registration form.
var ReferralSources = []string{"Social media", "Friends", "Found myself"}

// RegistrationForm is the browser-facing registration form. It is stricter than the
// API: the name has a character set and length, and the referral is a closed set.
type RegistrationForm struct {
	FullName string `validate:"required,min=3,max=50,personname"`
	Email    string `validate:"required,email,max=100"`
	DOB      string `validate:"required,dateformat,notfuture"`
	Referral string `validate:"required,oneof='Social media' 'Friends' 'Found myself'"`
}

// formMessages maps field name and failed tag to the message shown next to the field.
var formMessages = map[string]map[string]string{
	"FullName": {
		"required":   "Full name is required",
		"min":        "Full name must be at least 3 characters",
		"max":        "Full name must be at most 50 characters",
		"personname": "Can contain only letters, spaces, apostrophes or hyphens",
	},
	"Email": {
		"required": "Email is required",
		"email":    "Email is invalid",
		"max":      "Email is too long",
	},
	"DOB": {
		"required":   "Date of birth is required",
		"dateformat": "Invalid date format",
		"notfuture":  "Date of birth cannot be in the future",
	},
	"Referral": {
		"required": "Please select a source",
		"oneof":    "Invalid source",
	},
}

// formFieldNames maps struct fields to the form input names.
var formFieldNames = map[string]string{
	"FullName": "fullName",
	"Email":    "email",
	"DOB":      "dob",
	"Referral": "referral",
}

// RegistrationForm validates f and returns messages keyed by form input name.
// A nil map means the form is valid.
func (v *Validator) RegistrationForm(f RegistrationForm) map[string]string {
	err := v.validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg := formMessages[fe.Field()][fe.Tag()]
		if msg == "" {
			msg = "Invalid value"
		}
		out[formFieldNames[fe.Field()]] = msg
	}
	return out
}
