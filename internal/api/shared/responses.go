package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Pagination is the metadata block attached to list responses.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"total_pages"`
}

// Envelope is the uniform JSON wrapper every response conforms to.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and body.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a success envelope with the given status,
// message, and data payload.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	RespondWithJSON(w, r, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithPage writes a success envelope carrying a data page and its
// pagination metadata.
func RespondWithPage(w http.ResponseWriter, r *http.Request, data interface{}, pagination *Pagination) {
	RespondWithJSON(w, r, http.StatusOK, Envelope{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// RespondWithError writes a failure envelope with the given status and message.
// It also sets the TraceID from the request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Message: message,
		TraceID: traceID,
	})
}

// RespondWithDetailedError writes a failure envelope with a headline
// message plus a single error detail string.
func RespondWithDetailedError(w http.ResponseWriter, r *http.Request, status int, message, detail string) {
	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Message: message,
		Error:   detail,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithValidationErrors writes the 400 envelope carrying per-field
// validation messages under the errors key.
func RespondWithValidationErrors(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	RespondWithJSON(w, r, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  fieldErrors,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes a failure envelope and also logs the
// underlying error. The client sees only the safe message; the full error
// goes to the logs. 5xx responses log at ERROR, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs, slog.String("error", err.Error()))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Message: userMessage,
		TraceID: traceID,
	})
}
