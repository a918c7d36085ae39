// Package validation holds the single validation stage shared by the HTTP boundary,
// the event service and the web client. Messages are part of the API contract.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"eventregistration/internal/domain"
)

// Messages returned to API clients.
const (
	MsgEventFieldsRequired       = "All fields are required."
	MsgParticipantFieldsRequired = "Full name, email, and date of birth are required."
	MsgInvalidEmail              = "Invalid email format."
	MsgFutureDOB                 = "Date of birth cannot be in the future."
	MsgInvalidDate               = "Invalid date format."
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Latin and Cyrillic (including Ukrainian) letters, spaces, apostrophes and hyphens.
	personNamePattern = regexp.MustCompile(`^[A-Za-zА-Яа-яЁёЇїІіЄєҐґ'’\-\s]+$`)
)

// Validator wraps a configured go-playground validator with the custom tags
// basicemail, notfuture, dateformat and personname.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New returns a Validator that compares dates against the wall clock.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Validator that uses now as the current time.
func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), now: now}
	v.mustRegister("basicemail", isBasicEmail)
	v.mustRegister("personname", isPersonName)
	v.mustRegister("dateformat", isDate)
	v.mustRegister("notfuture", v.isNotFuture)
	return v
}

func (v *Validator) mustRegister(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Event validates the fields of a new event.
func (v *Validator) Event(in domain.NewEventInput) error {
	if err := v.validate.Struct(in); err != nil {
		if isValidationErrors(err) {
			return domain.InvalidInput(MsgEventFieldsRequired)
		}
		return err
	}
	return nil
}

// EventPatch rejects a patch that would blank out a required event field.
func (v *Validator) EventPatch(p domain.EventPatch) error {
	for _, s := range []*string{p.ImgURL, p.Title, p.Description, p.Organizer} {
		if s != nil && v.validate.Var(*s, "required") != nil {
			return domain.InvalidInput(MsgEventFieldsRequired)
		}
	}
	if p.EventDate != nil && p.EventDate.IsZero() {
		return domain.InvalidInput(MsgEventFieldsRequired)
	}
	return nil
}

// Participant validates registration fields. Missing fields are reported before a
// malformed email, which is reported before a future date of birth.
func (v *Validator) Participant(in domain.NewParticipantInput) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.Tag()] = true
	}
	switch {
	case failed["required"]:
		return domain.InvalidInput(MsgParticipantFieldsRequired)
	case failed["basicemail"]:
		return domain.InvalidInput(MsgInvalidEmail)
	default:
		return domain.InvalidInput(MsgFutureDOB)
	}
}

func isValidationErrors(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func isBasicEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

func isPersonName(fl validator.FieldLevel) bool {
	return personNamePattern.MatchString(fl.Field().String())
}

func isDate(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// isNotFuture accepts time.Time fields and date strings. Unparseable strings pass
// here and are reported by dateformat.
func (v *Validator) isNotFuture(fl validator.FieldLevel) bool {
	var t time.Time
	switch field := fl.Field(); field.Kind() {
	case reflect.String:
		parsed, err := ParseDate(field.String())
		if err != nil {
			return true
		}
		t = parsed
	default:
		tt, ok := field.Interface().(time.Time)
		if !ok {
			return false
		}
		t = tt
	}
	return !t.After(v.now())
}
