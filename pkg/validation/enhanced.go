// Package validation provides enhanced validation with go-playground/validator integration
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Enhanced validator instance with custom validations
var (
	// Validate is the main validator instance
	Validate *validator.Validate
)

var nodeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func init() {
	Validate = validator.New()

	// Register custom validation functions
	Validate.RegisterValidation("node_id", validateNodeID)
	Validate.RegisterValidation("node_kind", validateNodeKind)
	Validate.RegisterValidation("optimization_level", validateOptimizationLevel)

	// Register tag name function to use JSON tags for field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct validates a payload with tag rules first, then any
// custom Validate() implementation (cross-field checks).
func ValidateStruct(s interface{}) error {
	if err := Validate.Struct(s); err != nil {
		return formatValidationErrors(err)
	}
	if custom, ok := s.(interface{ Validate() error }); ok {
		return custom.Validate()
	}
	return nil
}

// formatValidationErrors converts validator errors to our custom format
func formatValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Value:   fieldError.Value(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return errors
}

// getErrorMessage returns a human-readable error message
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return "minimum value/length is " + fe.Param()
	case "max":
		return "maximum value/length is " + fe.Param()
	case "node_id":
		return "must be a valid node identifier (alphanumeric, underscore, hyphen)"
	case "node_kind":
		return "must be a known node kind (input, indicator, condition, logic, signal, output, ml-model, custom-code, risk, sizing)"
	case "optimization_level":
		return "must be one of: none, basic, aggressive"
	default:
		return "validation failed: " + fe.Tag()
	}
}

// Custom validation functions for strategy-graph-specific rules

// validateNodeID validates node identifier format
func validateNodeID(fl validator.FieldLevel) bool {
	nodeID := fl.Field().String()
	return nodeID != "" && len(nodeID) <= 100 && nodeIDPattern.MatchString(nodeID)
}

// validateNodeKind accepts the known node kinds. Unknown kinds are
// rejected at the payload boundary; inside the core they would only fall
// through to default handlers.
func validateNodeKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "input", "indicator", "condition", "logic", "signal", "output",
		"ml-model", "custom-code", "risk", "sizing":
		return true
	}
	return false
}

// validateOptimizationLevel validates the optimization selector.
func validateOptimizationLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "none", "basic", "aggressive":
		return true
	}
	return false
}
