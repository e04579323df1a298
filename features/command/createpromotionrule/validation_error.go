package createpromotionrule

import (
	"strings"

	"github.com/commercekit/commerce-core-go/discount"
)

// ValidationError carries the complete list of field errors the validator reported.
// It is a business outcome, not an infrastructure failure: nothing was persisted.
type ValidationError struct {
	FieldErrors []discount.FieldError
}

// Error implements the error interface, joining all field errors into one message.
func (e ValidationError) Error() string {
	messages := make([]string, 0, len(e.FieldErrors))
	for _, fieldError := range e.FieldErrors {
		messages = append(messages, fieldError.String())
	}

	return "rule validation failed: " + strings.Join(messages, "; ")
}
