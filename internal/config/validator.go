// Package config provides configuration management for the route-rule analyzer.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error with a user-friendly message.
type ValidationError struct {
	Field   string      // Field path (e.g. "run.daystoscan")
	Tag     string      // Validation tag that failed (e.g. "required", "gte")
	Value   interface{} // Actual value that failed validation
	Message string      // User-friendly error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// validate is the package-level validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration and returns user-friendly error messages.
// Configuration errors are fatal at startup, before any I/O is attempted.
func Validate(cfg *Config) error {
	var validationErrors ValidationErrors

	if err := validate.Struct(cfg); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, &ValidationError{
					Field:   formatFieldName(fe.Namespace()),
					Tag:     fe.Tag(),
					Value:   fe.Value(),
					Message: translateError(fe),
				})
			}
		}
	}

	if errs := validateContinentTags(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if errs := validateEventStore(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if errs := validateHostStore(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// validateContinentTags rejects continent tags that are duplicated or that
// collide with the reserved "central"/"domestic" region names; such a tag
// would silently overwrite a rule list in the analyzer's output map.
func validateContinentTags(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	seen := make(map[string]bool, len(cfg.Vantages.Continents))
	for i, c := range cfg.Vantages.Continents {
		if c.Tag == "domestic" || c.Tag == "central" {
			errors = append(errors, &ValidationError{
				Field:   fmt.Sprintf("vantages.continents[%d].tag", i),
				Tag:     "reserved_tag",
				Value:   c.Tag,
				Message: fmt.Sprintf("continent tag %q collides with a reserved region name", c.Tag),
			})
			continue
		}
		if seen[c.Tag] {
			errors = append(errors, &ValidationError{
				Field:   fmt.Sprintf("vantages.continents[%d].tag", i),
				Tag:     "unique",
				Value:   c.Tag,
				Message: fmt.Sprintf("duplicate continent tag %q", c.Tag),
			})
		}
		seen[c.Tag] = true
	}

	return errors
}

// validateEventStore checks driver-specific required fields the struct tags
// cannot express (base_url is only required for the http driver).
func validateEventStore(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	if cfg.EventStore.Driver == "http" && cfg.EventStore.BaseURL == "" {
		errors = append(errors, &ValidationError{
			Field:   "event_store.base_url",
			Tag:     "required_when_http",
			Value:   "",
			Message: "base_url is required when event_store.driver is \"http\"",
		})
	}

	return errors
}

// validateHostStore checks driver-specific required fields for the dynamodb driver.
func validateHostStore(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	if cfg.HostStore.Driver == "dynamodb" {
		if cfg.HostStore.TableName == "" {
			errors = append(errors, &ValidationError{
				Field:   "host_store.table_name",
				Tag:     "required_when_dynamodb",
				Value:   "",
				Message: "table_name is required when host_store.driver is \"dynamodb\"",
			})
		}
		if cfg.HostStore.Region == "" {
			errors = append(errors, &ValidationError{
				Field:   "host_store.region",
				Tag:     "required_when_dynamodb",
				Value:   "",
				Message: "region is required when host_store.driver is \"dynamodb\"",
			})
		}
	}

	return errors
}

// formatFieldName converts the validator field namespace to a user-friendly format.
// Example: "Config.Run.DaysToScan" -> "run.daystoscan".
func formatFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // drop the root struct name
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}

// translateError converts a validator.FieldError to a user-friendly message.
func translateError(fe validator.FieldError) string {
	field := formatFieldName(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gte":
		return fmt.Sprintf("value must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("value must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", fe.Param())
	case "dive":
		return fmt.Sprintf("invalid value in list: %v", fe.Value())
	default:
		return fmt.Sprintf("validation failed on '%s' tag for field '%s'", fe.Tag(), field)
	}
}
