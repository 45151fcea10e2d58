package entity

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/utils/response"
)

// describe turns validator output into the text shown above a form.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return errors.New(response.ValidationError(ve).Message)
	}
	return err
}

// keyValidator adapts a composite key's Validate method to a row identity.
func keyValidator[K interface{ Validate() error }](from func(dispatch.Identity) K) func(dispatch.Identity) error {
	return func(id dispatch.Identity) error {
		return describe(from(id).Validate())
	}
}
