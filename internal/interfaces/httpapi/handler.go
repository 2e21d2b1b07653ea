package httpapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/KingBodhi/jungleverse/internal/platform/logging"
	"github.com/KingBodhi/jungleverse/internal/usecase"
)

type Handler struct {
	orchestrator *usecase.OrchestratorService
	monitor      *usecase.MonitorService
	logger       *logging.Logger
	validator    *validator.Validate
	now          func() time.Time
}

func NewHandler(
	orchestrator *usecase.OrchestratorService,
	monitor *usecase.MonitorService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		orchestrator: orchestrator,
		monitor:      monitor,
		logger:       logger,
		validator:    validator.New(),
		now:          time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
