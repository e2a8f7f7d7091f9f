package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/hieudev/todo-api/internal/models"
)

// Validate is a shared validator instance
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("todo_status", validateTodoStatus); err != nil {
		panic(fmt.Sprintf("failed to register todo_status validator: %v", err))
	}
}

// validateTodoStatus validates that a string is a valid Status enum value
func validateTodoStatus(fl validator.FieldLevel) bool {
	_, err := models.ParseStatus(fl.Field().String())
	return err == nil
}

// SanitizeText trims whitespace and removes control characters from user text
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// FieldErrors converts validator errors into per-field messages for the
// error response body.
func FieldErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		validationErrors = vErrs
	} else {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s: failed on '%s' validation",
			fieldError.Field(), fieldError.Tag()))
	}
	return messages
}
