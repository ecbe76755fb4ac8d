package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 16 << 20

type ErrorResponse struct {
	Error string `json:"error"`
}

// ReadBody decodes a JSON request body of at most 16 MiB.
func ReadBody[InitType any](r *http.Request) (InitType, error) {
	var body InitType
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return body, fmt.Errorf("invalid request body: %w", err)
	}
	return body, nil
}

func JSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// PathID returns the {id} route variable, writing a 400 when it is missing.
func PathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if id == "" {
		Error(w, http.StatusBadRequest, "Missing id")
		return "", false
	}
	return id, true
}
