package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

var (
	ErrEmptyBody     = errors.New("request body is required")
	ErrMalformedBody = errors.New("request body is not valid JSON")
)

// BindJSON decodes the request body into T. Field rules are left to the caller's validator.
func BindJSON[T any](c *gin.Context) (T, error) {
	var params T

	err := c.ShouldBindJSON(&params)

	if err == nil {
		return params, nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return params, ErrEmptyBody
	case errors.As(err, &typeErr):
		return params, fmt.Errorf("%s must be a %s", typeErr.Field, typeErr.Type.Kind())
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return params, ErrMalformedBody
	default:
		return params, err
	}
}
