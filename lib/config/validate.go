// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bureau-foundation/shapes/lib/shape"
)

// validate is shared; validator caches struct metadata per type.
var validate = newValidator()

func newValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML key so messages match the file.
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := instance.RegisterValidation("shapecolor", func(field validator.FieldLevel) bool {
		return shape.ValidColor(field.Field().String())
	}); err != nil {
		panic("config: registering shapecolor validation: " + err.Error())
	}
	return instance
}

// FieldError is one invalid configuration value.
type FieldError struct {
	// Field is the dotted YAML path, e.g. "keyboard.poll_interval".
	Field   string
	Message string
}

// ValidationErrors collects every invalid field found by Validate.
type ValidationErrors struct {
	Errors []FieldError
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "invalid configuration"
	}
	messages := make([]string, len(v.Errors))
	for index, fieldError := range v.Errors {
		messages[index] = fieldError.Field + ": " + fieldError.Message
	}
	return "invalid configuration: " + strings.Join(messages, "; ")
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating configuration: %w", err)
	}
	result := &ValidationErrors{}
	for _, fieldError := range fieldErrors {
		result.Errors = append(result.Errors, FieldError{
			Field:   yamlPath(fieldError.Namespace()),
			Message: formatValidationMessage(fieldError),
		})
	}
	return result
}

// yamlPath strips the root struct name from a validator namespace:
// "Config.keyboard.poll_interval" becomes "keyboard.poll_interval".
func yamlPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

func formatValidationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "is required"
	case "shapecolor":
		return fmt.Sprintf("%q is not a shape color (one of %s)",
			fieldError.Value(), strings.Join(shape.Colors, ", "))
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldError.Param())
	case "ipv4":
		return fmt.Sprintf("%q is not an IPv4 address", fieldError.Value())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fieldError.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fieldError.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fieldError.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldError.Tag())
	}
}
