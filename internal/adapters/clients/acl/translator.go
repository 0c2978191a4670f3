package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/quote-screen/internal/domain"
)

var validate = newValidator()

// newValidator reports fields by their JSON key so decode errors name the
// key the API failed to send.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// DecodeResponse decodes a JSON body into T and validates its struct tags.
// Any failure is a *domain.DecodeError. Unknown fields are ignored.
func DecodeResponse[T any](body io.Reader) (*T, error) {
	if body == nil {
		return nil, domain.NewDecodeError("response body is nil")
	}

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, domain.NewDecodeError(err.Error())
	}

	if err := validate.Struct(&result); err != nil {
		return nil, domain.NewDecodeError(describeValidation(err))
	}

	return &result, nil
}

// describeValidation names the missing or invalid JSON keys.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("key %q not found", fe.Field()))
			continue
		}

		msgs = append(msgs, fmt.Sprintf("key %q failed %s", fe.Field(), fe.Tag()))
	}

	return strings.Join(msgs, "; ")
}

// Translator converts a validated external DTO into a domain value.
type Translator[External any, Domain any] func(ext *External) (Domain, error)
