package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSONResponse builds API responses so handlers stay declarative.
type JSONResponse struct {
	status  int
	payload any
	headers map[string]string
}

func NewJSONResponse() *JSONResponse {
	return &JSONResponse{
		status:  http.StatusOK,
		headers: make(map[string]string),
	}
}

func (b *JSONResponse) Status(code int) *JSONResponse {
	b.status = code
	return b
}

func (b *JSONResponse) Payload(v any) *JSONResponse {
	b.payload = v
	return b
}

func (b *JSONResponse) Header(name, value string) *JSONResponse {
	b.headers[name] = value
	return b
}

func (b *JSONResponse) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.status)
	if b.payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(b.payload); err != nil {
		slog.Error("Failed to encode response payload", "error", err)
	}
}

// ErrorResponse is the shared failure shape: {"success": false, "message": ...}.
func ErrorResponse(statusCode int, message string) *JSONResponse {
	return NewJSONResponse().
		Status(statusCode).
		Payload(map[string]any{"success": false, "message": message})
}

func BadRequestError(message string) *JSONResponse {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnauthorizedError(message string) *JSONResponse {
	return ErrorResponse(http.StatusUnauthorized, message)
}

func ConflictError(message string) *JSONResponse {
	return ErrorResponse(http.StatusConflict, message)
}

func InternalServerError(message string) *JSONResponse {
	return ErrorResponse(http.StatusInternalServerError, message)
}
