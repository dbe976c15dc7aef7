package http

import (
	"net/http"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/store"
	"github.com/mc-mysterria/archive-forum/pkg/httpx"
)

// ReadyHealthResponse is HealthResponse plus per-dependency checks.
type ReadyHealthResponse struct {
	HealthResponse
	Checks ReadyChecks `json:"checks"`
}

// ReadyChecks reports the status of the service's critical dependencies.
type ReadyChecks struct {
	Database string `json:"database"`
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and database status
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	ReadyHealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	ReadyHealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := ReadyChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := ReadyHealthResponse{
			HealthResponse: HealthResponse{
				Status:  overallStatus,
				Uptime:  time.Since(startTime).String(),
				Version: version,
			},
			Checks: checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
