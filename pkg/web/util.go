package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/orgsvc/orgsvc/pkg/proto"
)

// successResponse is the envelope of every successful API response.
type successResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// errorResponse is the envelope of API errors that are not validation
// errors.
type errorResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// validationResponse is the envelope of validation and conflict errors.
type validationResponse struct {
	Errors proto.ValidationErrors `json:"errors"`
}

func renderJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding json", "err", err)
	}
}

func renderSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	renderJSON(w, statusCode, successResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func renderErrorMessage(w http.ResponseWriter, statusCode int, message string) {
	status := "Bad request"
	if statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError {
		status = "error"
	}

	renderJSON(w, statusCode, errorResponse{
		Status:     status,
		Message:    message,
		StatusCode: statusCode,
	})
}

// renderError maps a backend error to its HTTP response.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs    proto.ValidationErrors
		conflict *proto.ConflictError
	)

	switch {
	case errors.As(err, &verrs):
		renderJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: verrs})
	case errors.As(err, &conflict):
		renderJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: conflict.Errors()})
	case errors.Is(err, proto.ErrAuthenticationFailed):
		renderUnauthorized(w, r)
	case errors.Is(err, proto.ErrForbidden):
		renderErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, proto.ErrNotFound):
		renderErrorMessage(w, http.StatusNotFound, err.Error())
	default:
		log.FromContext(r.Context()).Error("internal error", "err", err)
		renderInternalServerError(w, r)
	}
}

// decodeJSON decodes the request body into v. It renders a client error and
// returns false when the body isn't a JSON object.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v); err != nil {
		log.FromContext(r.Context()).Debug("invalid request body", "err", err)
		renderBadRequest(w, r)
		return false
	}

	return true
}

// maxBodySize is the largest request body accepted by the API.
const maxBodySize = 1 << 20

func renderBadRequest(w http.ResponseWriter, _ *http.Request) {
	renderErrorMessage(w, http.StatusBadRequest, "Client error")
}

func renderUnauthorized(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="orgsvc"`)
	renderErrorMessage(w, http.StatusUnauthorized, proto.ErrAuthenticationFailed.Error())
}

func renderNotFound(w http.ResponseWriter, _ *http.Request) {
	renderErrorMessage(w, http.StatusNotFound, "Not found")
}

func renderMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	renderErrorMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func renderInternalServerError(w http.ResponseWriter, _ *http.Request) {
	renderErrorMessage(w, http.StatusInternalServerError, "Internal server error")
}
