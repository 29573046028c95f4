package handler

import (
	"log/slog"
	"net/http"

	"github.com/kamerdata/kamerarchief/internal/model"
	"github.com/kamerdata/kamerarchief/internal/store"
)

// AppointmentHandler serves the ministers and staatssecretarissen endpoints.
type AppointmentHandler struct {
	appointmentStore *store.AppointmentStore
	logger           *slog.Logger
}

func NewAppointmentHandler(as *store.AppointmentStore, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointmentStore: as, logger: logger}
}

// List handles GET /api/appointments. Supported query parameters: cabinet,
// function (Minister or Staatssecretaris), role, party, and current=true.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	function := q.Get("function")
	if function != "" && !model.ValidFunction(function) {
		writeError(w, http.StatusBadRequest, "function must be Minister or Staatssecretaris")
		return
	}

	apps, err := h.appointmentStore.List(store.AppointmentFilter{
		Cabinet:  q.Get("cabinet"),
		Function: function,
		Role:     q.Get("role"),
		Party:    q.Get("party"),
		Current:  q.Get("current") == "true",
	})
	if err != nil {
		h.logger.Error("list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if apps == nil {
		apps = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, apps)
}

// Cabinets handles GET /api/cabinets: one summary row per cabinet in
// chronological order.
func (h *AppointmentHandler) Cabinets(w http.ResponseWriter, r *http.Request) {
	cabinets, err := h.appointmentStore.Cabinets()
	if err != nil {
		h.logger.Error("cabinet summaries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to summarize cabinets")
		return
	}
	if cabinets == nil {
		cabinets = []model.CabinetSummary{}
	}
	writeJSON(w, http.StatusOK, cabinets)
}
