package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failure response. Error holds either a
// single message or a list of messages.
type ErrorResponse struct {
	Error any `json:"error"`
}

// MessageResponse is the body of confirmation-only success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// JSONError writes {"error": message} with the given status code.
func JSONError(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, ErrorResponse{Error: message})
}

// JSONErrorMessages writes {"error": [messages...]} with the given status
// code.
func JSONErrorMessages(w http.ResponseWriter, statusCode int, messages []string) {
	JSON(w, statusCode, ErrorResponse{Error: messages})
}

// JSONMessage writes {"message": message} with status 200.
func JSONMessage(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, MessageResponse{Message: message})
}
