package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/docrest/registry"
)

// CodedError is an error that carries the HTTP status it should produce.
type CodedError struct {
	Code    int
	Message string
}

func (e *CodedError) Error() string {
	return e.Message
}

func (e *CodedError) StatusCode() int {
	return e.Code
}

type statusCoder interface {
	StatusCode() int
}

func InterceptorUnavailable(r *registry.Registry) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := r.GetStatus()
			if status != registry.StatusOperating {
				box.SetError(ctx, &CodedError{
					Code:    http.StatusServiceUnavailable,
					Message: "temporary unavailable: " + status,
				})
				return
			}
			next(ctx)
		}
	}
}

// errorCode extracts the numeric code of err, if any.
func errorCode(err error) (int, bool) {

	var coder statusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode(), true
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) {
		return http.StatusBadRequest, true
	}

	var syntacticError *jsontext.SyntacticError
	if errors.As(err, &syntacticError) {
		return http.StatusBadRequest, true
	}

	return 0, false
}

// writeError renders err as {"error":{"message","code"}}. The code is used
// as HTTP status when it is one, otherwise the status is 500.
func writeError(w http.ResponseWriter, err error) {

	message := err.Error()
	if message == "" {
		message = "An unspecified error occurred."
	}

	body := map[string]interface{}{
		"message": message,
	}

	status := http.StatusInternalServerError
	code, hasCode := errorCode(err)
	if hasCode {
		body["code"] = code
		if http.StatusText(code) != "" {
			status = code
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": body,
	})
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": "not found",
	})
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		if err == box.ErrResourceNotFound || err == box.ErrMethodNotAllowed {
			writeNotFound(w)
			return
		}

		writeError(w, err)
	}
}
