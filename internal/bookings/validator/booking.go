package validator

import (
	"fmt"
	"strings"

	"photodesk/pkg/logger"
	"photodesk/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate checks a booking bound for the persisted store. Queued bookings
// are held to a weaker contract (non-nil only); this one applies before a
// record becomes durable through the service surface.
func (bv *BookingValidator) Validate(booking *model.Booking) error {
	if booking == nil {
		return ValidationErrors{{Field: "booking", Message: "cannot be nil"}}
	}

	if err := bv.validate.Struct(booking); err != nil {
		return bv.translate(err)
	}
	return nil
}

func (bv *BookingValidator) ValidateUpdate(updates *model.BookingUpdate) error {
	if updates == nil {
		return ValidationErrors{{Field: "updates", Message: "cannot be nil"}}
	}

	if err := bv.validate.Struct(updates); err != nil {
		return bv.translate(err)
	}
	return nil
}

func (bv *BookingValidator) translate(err error) error {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		bv.logger.Error("Unexpected validator error type", "error", err)
		return ValidationErrors{{Field: "unknown", Message: err.Error()}}
	}

	var out ValidationErrors
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
