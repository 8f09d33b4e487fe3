// internal/pkg/request/request.go
package request

import (
	"errors"
	"fmt"
	"io"

	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Decoder reads the JSON body into v. An empty body leaves v at its zero
// value and still runs validation. Errors are returned as gin reports them.
func Decoder(c *gin.Context) func(v any) error {
	return func(v any) error {
		err := c.ShouldBindJSON(v)
		if errors.Is(err, io.EOF) {
			return binding.Validator.ValidateStruct(v)
		}
		return err
	}
}

// BindJSON decodes and validates the body. Validation failures come back as
// FieldErrors, anything else as ErrBadRequest.
func BindJSON(c *gin.Context, v any) error {
	if err := Decoder(c)(v); err != nil {
		return Classify(err)
	}
	return nil
}

func Classify(err error) error {
	err = validation.FromError(err)
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return fields
	}
	return fmt.Errorf("%w: %v", xerrors.ErrBadRequest, err)
}
