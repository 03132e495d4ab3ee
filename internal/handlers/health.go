package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Home returns a plain-text liveness banner.
func Home(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Gatekeeper bot webhook is live")
}

// HealthCheck returns a simple JSON status
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	response := map[string]string{"status": "ok"}
	json.NewEncoder(w).Encode(response)
}
