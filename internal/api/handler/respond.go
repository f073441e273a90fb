package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// writeError logs err and sends the error payload. Outside production the
// payload carries the stack of the handler goroutine at the point the error
// is reported; the error values themselves do not record where they arose.
func (h *SnakebiteHandler) writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := ErrorResponse{Error: code}
	if err != nil {
		resp.Message = err.Error()
		log.Printf("❌ %s: %v", code, err)
	}
	if err != nil && !h.opts.Production {
		resp.Stack = string(debug.Stack())
	}
	writeJSON(w, status, resp)
}
