package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "bacicli/internal/errors"
	"bacicli/pkg/contracts/domain"
)

// Validator checks request structs against their validate tags. Field names
// in errors come from the query or json tag.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// only fails on a duplicate or empty tag
	_ = v.RegisterValidation("entity_kind", func(fl validator.FieldLevel) bool {
		return domain.EntityKind(fl.Field().String()).IsValid()
	})
	v.RegisterTagNameFunc(fieldName)

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validator")),
	}
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"query", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return fld.Name
}

// ValidateStruct returns nil or a VALIDATION_FAILED error with one entry per
// offending field
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	out := make([]apierrors.ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = apierrors.ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	v.logger.Debug("request validation failed", slog.Int("fields", len(out)))
	return apierrors.NewValidationErrors(out)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "entity_kind":
		kinds := domain.AllKinds()
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))
	}
	return field + " is invalid"
}

// QueryInt reads an integer query parameter in [min, max]. An absent
// parameter yields def without a range check.
func QueryInt(r *http.Request, param string, min, max, def int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation(param, param+" must be a valid integer")
	}
	if n < min || n > max {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be between %d and %d", param, min, max))
	}
	return n, nil
}

// QueryBool reads a boolean query parameter in any form strconv.ParseBool
// accepts
func QueryBool(r *http.Request, param string, def bool) (bool, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apierrors.ErrValidation(param, param+" must be true or false")
	}
	return b, nil
}
