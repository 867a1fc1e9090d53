package health

import (
	"net/http"
)

// HealthzHandler answers 200 "ok" while p passes, else 503 with the
// reason. A nil probe is always healthy.
func HealthzHandler(p Probe) http.HandlerFunc {
	return handler(p, "ok")
}

// ReadyzHandler is HealthzHandler with a "ready" body, for load balancer
// readiness checks.
func ReadyzHandler(p Probe) http.HandlerFunc {
	return handler(p, "ready")
}

func handler(p Probe, okBody string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if p != nil {
			if err := p.Check(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(err.Error() + "\n"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(okBody + "\n"))
	}
}
