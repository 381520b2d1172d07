package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of a 422 response body.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type validationResponse struct {
	Error  string       `json:"error"`
	Detail []FieldError `json:"detail"`
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report json keys ("bloodPressure") instead of Go
// field names ("BloodPressure").
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// writeBindError renders a binding failure. Oversized bodies get 413, everything else
// is a 422 with per-field detail.
func writeBindError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload_too_large"})
		return
	}

	c.JSON(http.StatusUnprocessableEntity, validationResponse{
		Error:  "validation_failed",
		Detail: fieldErrors(err),
	})
}

func fieldErrors(err error) []FieldError {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)

	switch {
	case errors.As(err, &verrs):
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  validationMessage(fe),
				Type: validationType(fe),
			})
		}
		return out
	case errors.As(err, &typeErr):
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, typeErr.Field)
		}
		return []FieldError{{
			Loc:  loc,
			Msg:  "Input should be a valid number",
			Type: "float_parsing",
		}}
	case errors.As(err, &synErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []FieldError{{
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}
	case errors.Is(err, io.EOF):
		return []FieldError{{
			Loc:  []string{"body"},
			Msg:  "Field required",
			Type: "missing",
		}}
	default:
		return []FieldError{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}
	}
}

func validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "Field required"
	}
	return "Invalid value"
}

func validationType(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "missing"
	}
	return fe.Tag()
}
