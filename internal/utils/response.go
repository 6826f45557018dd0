package utils

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the body of every error reply and of delete confirmations.
type MessageResponse struct {
	Message string `json:"message"`
	ID      *int64 `json:"id,omitempty"`
}

// WriteJSON encodes data with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteMessage replies with {"message": message}.
func WriteMessage(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, MessageResponse{Message: message})
}

// WriteBinary replies with a raw payload such as a PNG or an iCalendar file.
func WriteBinary(w http.ResponseWriter, contentType string, payload []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(payload)
	return err
}
