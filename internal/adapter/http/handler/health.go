package handler

import (
	"net/http"

	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

type Health struct {
	stageName string
	log       logger.Logger
}

func NewHealth(stageName string, log logger.Logger) *Health {
	return &Health{
		stageName: stageName,
		log:       log,
	}
}

// HealthCheck - returns system information.
func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	response := envelope{
		"status": "available",
		"system_info": map[string]string{
			"stage-name": h.stageName,
		},
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.log.Error(ctx, "healthcheck", err)
		return
	}
}
