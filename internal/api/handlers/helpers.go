package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxJSONBody = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// requestError is a client error produced while decoding or validating a
// request body.
type requestError struct {
	msg   string
	field string
}

func (e *requestError) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeRequestError(w http.ResponseWriter, err error) {
	var re *requestError
	if errors.As(err, &re) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: re.msg, Field: re.field})
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
}

// decodeJSON decodes a single JSON object into dst, rejecting unknown
// fields and trailing data, then runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			return &requestError{msg: fmt.Sprintf("%s has the wrong type", typeErr.Field), field: typeErr.Field}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return &requestError{msg: fmt.Sprintf("unknown field %q", field), field: field}
		case errors.Is(err, io.EOF):
			return &requestError{msg: "request body is empty"}
		default:
			return &requestError{msg: "invalid request body"}
		}
	}
	if dec.More() {
		return &requestError{msg: "request body must contain a single JSON object"}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return &requestError{msg: "invalid request body"}
	}
	return nil
}

func fieldError(fe validator.FieldError) *requestError {
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = field + " is required"
	case "email":
		msg = field + " must be a valid email address"
	case "oneof":
		msg = field + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		msg = field + " must be at most " + fe.Param() + " characters"
	default:
		msg = field + " is invalid"
	}
	return &requestError{msg: msg, field: field}
}

// pathID parses the {id} URL parameter. Malformed ids are reported as
// absent rather than as bad requests.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
