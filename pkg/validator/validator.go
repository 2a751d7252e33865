// ==============================================================================
// VALIDATOR PACKAGE - pkg/validator/validator.go
// ==============================================================================
package validator

import (
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DocumentTypes lists the values accepted by the document_type tag.
// Kept in sync with domain.DocumentType by domain tests.
var DocumentTypes = []string{
	"NATIONAL_ID", "PASSPORT", "DRIVING_LICENSE", "COMPANY_REGISTRATION",
	"BUSINESS_LICENSE", "TAX_CERTIFICATE", "BANK_STATEMENT", "FINANCIAL_STATEMENT",
	"INCOME_PROOF", "UTILITY_BILL", "RENTAL_AGREEMENT", "OTHER",
}

// DocumentMimeTypes lists the values accepted by the document_mime tag.
// Kept in sync with domain.AcceptedMimeTypes by domain tests.
var DocumentMimeTypes = []string{"application/pdf", "image/jpeg", "image/png"}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
	}
	v.registerCustomValidations()
	return v
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		// Format validation errors
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMessages []string
			for _, e := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"Field '%s' failed validation '%s'",
					e.Field(),
					e.Tag(),
				))
			}
			return fmt.Errorf("validation failed: %v", errMessages)
		}
		return err
	}
	return nil
}

// ValidateStructured returns a map of field -> error message for frontend usage
func (v *Validator) ValidateStructured(i interface{}) map[string]string {
	errs := make(map[string]string)
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				msg := fmt.Sprintf("failed validation on '%s'", e.Tag())
				switch e.Tag() {
				case "required":
					msg = "This field is required"
				case "min":
					msg = fmt.Sprintf("Must be at least %s", e.Param())
				case "max":
					msg = fmt.Sprintf("Must be at most %s", e.Param())
				case "gte":
					msg = fmt.Sprintf("Must be greater than or equal to %s", e.Param())
				case "application_decision":
					msg = "Decision must be APPROVED or REJECTED"
				case "document_type":
					msg = "Unknown document type"
				case "document_mime":
					msg = "Unsupported file format, use PDF, JPEG or PNG"
				}
				errs[e.Field()] = msg
			}
		} else {
			errs["_global"] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) registerCustomValidations() {
	// Register decimal.Decimal to be validated as float64 for gt/lt checks
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch val := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := val.Float64()
			return f
		case decimal.NullDecimal:
			if !val.Valid {
				return nil
			}
			f, _ := val.Decimal.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{})

	_ = v.validate.RegisterValidation("application_decision", func(fl validator.FieldLevel) bool {
		switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
		case "APPROVED", "REJECTED":
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("document_type", func(fl validator.FieldLevel) bool {
		value := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
		for _, t := range DocumentTypes {
			if t == value {
				return true
			}
		}
		return false
	})

	_ = v.validate.RegisterValidation("document_mime", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if i := strings.IndexByte(value, ';'); i >= 0 {
			value = value[:i]
		}
		value = strings.ToLower(strings.TrimSpace(value))
		for _, m := range DocumentMimeTypes {
			if m == value {
				return true
			}
		}
		return false
	})
}

// Sanitize cleans string input to prevent XSS attacks
func Sanitize(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}
