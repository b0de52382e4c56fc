package belotetypes

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation matches every *ValidationError under errors.Is.
var ErrValidation = errors.New("validation failed")

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError reports malformed creation input.
type ValidationError struct {
	Problems []FieldError `json:"problems"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("team", func(fl validator.FieldLevel) bool {
			return Team(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("trump", func(fl validator.FieldLevel) bool {
			return TrumpCard(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("contract", func(fl validator.FieldLevel) bool {
			return BeloteContract(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Validate checks the draft after normalization.
func (d GameDraft) Validate() error {
	return validateStruct(d.Normalize())
}

// Validate checks enum membership and points within 0..1000.
func (in RoundInput) Validate() error {
	return validateStruct(in)
}

// Validate checks enum membership and raw points within 0..1000.
func (e RoundEntry) Validate() error {
	return validateStruct(e)
}

func validateStruct(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &ValidationError{Problems: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Problems = append(out.Problems, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "team", "trump", "contract":
		return fmt.Sprintf("%s has unknown %s %q", fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
