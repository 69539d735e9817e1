package health

import (
	"encoding/json"
	"net/http"
)

// Response is the payload for the liveness endpoint.
type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Handler answers liveness probes. It bypasses the shared envelope so
// probes stay cheap and dependency-free.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Status: "healthy", Service: "roastlog"})
}
