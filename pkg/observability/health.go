package observability

import (
	"context"
	"encoding/json"
	"net/http"
)

// ReadyCheck reports whether a subsystem can serve requests; nil means ready.
type ReadyCheck func(ctx context.Context) error

// healthStatus is the JSON body of /healthz and /readyz.
type healthStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// HealthHandler answers liveness checks at /healthz with 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeHealth(rw, http.StatusOK, healthStatus{Status: "ok"})
	})
}

// ReadyHandler runs checks in order on every request. The first failure
// answers 503 with its error as the reason.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		for _, check := range checks {
			if err := check(hr.Context()); err != nil {
				writeHealth(rw, http.StatusServiceUnavailable, healthStatus{Status: "unavailable", Reason: err.Error()})

				return
			}
		}

		writeHealth(rw, http.StatusOK, healthStatus{Status: "ok"})
	})
}

func writeHealth(rw http.ResponseWriter, code int, body healthStatus) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	//nolint:errcheck // the status line is already sent.
	_ = json.NewEncoder(rw).Encode(body)
}
