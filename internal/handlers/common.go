package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/devconnector/backend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeServerError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, models.NewMessageResponse("Server Error"))
}
