package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// validate uses JSON field names in its error messages.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.ErrorContext(r.Context(), "encode response", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) writeErrorBody(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, r, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeError maps a service error to its HTTP status via errors.Is.
// Unknown errors are logged and reported as 500 without leaking details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeErrorBody(w, r, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrInvalidPermutation):
		s.writeErrorBody(w, r, http.StatusConflict, "invalid_permutation", unwrapMessage(err))
	case errors.Is(err, domain.ErrNoOpenDraft):
		s.writeErrorBody(w, r, http.StatusConflict, "no_open_draft", unwrapMessage(err))
	case errors.Is(err, domain.ErrInvalidTime):
		s.writeErrorBody(w, r, http.StatusUnprocessableEntity, "invalid_time", unwrapMessage(err))
	case errors.Is(err, domain.ErrInvalidDuration):
		s.writeErrorBody(w, r, http.StatusUnprocessableEntity, "invalid_duration", unwrapMessage(err))
	case errors.Is(err, domain.ErrDuplicateID), errors.Is(err, domain.ErrValidation):
		s.writeErrorBody(w, r, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.As(err, &maxBytes):
		s.writeErrorBody(w, r, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
	default:
		s.log.ErrorContext(r.Context(), "unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeErrorBody(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage drops the "pkg.Type.Method: " prefixes added while wrapping,
// leaving the sentinel text and its detail.
// e.g. "service.ItineraryService.Reorder: itinerary.Store.Reorder: invalid permutation: unknown stop \"9\""
// → "invalid permutation: unknown stop \"9\""
func unwrapMessage(err error) string {
	msg := err.Error()
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || !strings.Contains(head, ".") || strings.ContainsAny(head, " \"") {
			return msg
		}
		msg = rest
	}
}

// decodeBody decodes a JSON body into dst and runs struct validation.
// On failure it writes the error response and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.writeError(w, r, err)
			return false
		}
		s.writeErrorBody(w, r, http.StatusBadRequest, "bad_request", "malformed JSON body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		s.writeErrorBody(w, r, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
		return false
	}
	return true
}

// validationMessage renders validator errors as "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fe.Namespace()+": "+rule)
	}
	return strings.Join(parts, "; ")
}

// tripIDParam binds the {tripId} path segment as a UUID.
func (s *Server) tripIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "tripId", chi.URLParam(r, "tripId"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.writeErrorBody(w, r, http.StatusBadRequest, "bad_request", "invalid tripId: must be a UUID")
		return uuid.UUID{}, false
	}
	return id, true
}

// stopIDParam returns the {stopId} path segment. Stop ids are opaque strings.
func stopIDParam(r *http.Request) string {
	return chi.URLParam(r, "stopId")
}
