// Package respond centralizes JSON response writing for HTTP handlers.
//
// Two body shapes are used, matching what the UI expects:
//   - {"error": "..."} for authentication failures and malformed requests
//   - {"message": "..."} for business-rule rejections and server errors
//
// Handlers never leak driver internals: unexpected errors are logged with
// zap and surfaced as a generic "Server error" message.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// JSON writes v as a JSON body with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}. Used for authentication and request-shape
// failures (401, 400 on bad JSON).
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Message writes {"message": msg}. Used for business-rule rejections
// (403, 404, 409) where the text is shown directly to the operator.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// ErrorLogger pairs a zap logger with the generic server-error response so
// handlers log the real failure and return a safe message in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err with context and writes a 500 "Server error"
// response without exposing internals.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	l.log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	Message(w, http.StatusInternalServerError, "Server error")
}

// LogBadRequest logs a malformed request and writes a 400 with the given
// user-facing message.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	l.log.Warn(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	Error(w, http.StatusBadRequest, userMsg)
}
