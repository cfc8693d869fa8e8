package lead

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Form is the contact form as posted by the visitor.
type Form struct {
	Name    string `json:"name" form:"name" validate:"required,max=200"`
	Email   string `json:"email" form:"email" validate:"required,email,max=320"`
	Company string `json:"company" form:"company" validate:"max=200"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("submission validation failed")

// ValidationError maps form field names to the failed rule ("required", "email", "max").
type ValidationError struct {
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return ErrValidation.Error() + ": " + strings.Join(fields, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Normalized returns the form with every field trimmed.
func (f Form) Normalized() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Company: strings.TrimSpace(f.Company),
		Message: strings.TrimSpace(f.Message),
	}
}

// ValidateForm checks the trimmed form and returns a *ValidationError, or nil.
func ValidateForm(f Form) error {
	err := formValidator().Struct(f.Normalized())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{FieldErrors: map[string]string{"form": err.Error()}}
	}
	out := &ValidationError{FieldErrors: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.FieldErrors[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return out
}
