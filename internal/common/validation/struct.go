package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Struct validates a value carrying `validate` tags and flattens the failures
// into one error.
func Struct(v interface{}) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		parts[i] = fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(parts, ", "))
}
