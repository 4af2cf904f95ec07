package httpx

import "net/http"

// healthHandler answers readiness/liveness probes. Session stores are not
// checked here: the cookie fallback keeps the service usable through a Redis
// outage, so store health is not liveness.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
