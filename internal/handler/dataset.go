package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/kamerdata/kamerarchief/internal/dataset"
	"github.com/kamerdata/kamerarchief/internal/ingest"
	"github.com/kamerdata/kamerarchief/internal/integrity"
	"github.com/kamerdata/kamerarchief/internal/model"
	"github.com/kamerdata/kamerarchief/internal/store"
	"github.com/kamerdata/kamerarchief/internal/websocket"
)

// DatasetHandler exposes the ingest ledger, the latest integrity report,
// and on-demand reloads.
type DatasetHandler struct {
	ingester  *ingest.Ingester
	loadStore *store.LoadStore
	hub       *websocket.Hub
	logger    *slog.Logger

	mu     sync.RWMutex
	latest *ingest.Result
}

func NewDatasetHandler(ing *ingest.Ingester, ls *store.LoadStore, hub *websocket.Hub, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{ingester: ing, loadStore: ls, hub: hub, logger: logger}
}

// SetResult records an ingest result produced outside the handler, such as
// the startup load or a watcher-triggered reload.
func (h *DatasetHandler) SetResult(res *ingest.Result) {
	h.mu.Lock()
	h.latest = res
	h.mu.Unlock()
}

// Status handles GET /api/dataset/status: the most recent ledger entry per
// dataset file plus recent load history.
func (h *DatasetHandler) Status(w http.ResponseWriter, r *http.Request) {
	files := map[string]*model.DatasetLoad{}
	for _, file := range []string{dataset.MembersFile, dataset.AppointmentsFile} {
		load, err := h.loadStore.Latest(file)
		if err != nil {
			h.logger.Error("latest load", "file", file, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read load ledger")
			return
		}
		files[file] = load
	}

	recent, err := h.loadStore.Recent(20)
	if err != nil {
		h.logger.Error("recent loads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read load ledger")
		return
	}
	if recent == nil {
		recent = []model.DatasetLoad{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"files":  files,
		"recent": recent,
	})
}

// Report handles GET /api/dataset/report: the integrity report from the most
// recent successful ingest.
func (h *DatasetHandler) Report(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	if latest == nil {
		writeError(w, http.StatusNotFound, "no dataset has been loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, latest.Report)
}

// Reload handles POST /api/dataset/reload: re-reads both CSV files and
// replaces the index. A structural failure leaves the previous index in
// place and returns 422.
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	res, err := h.ingester.Run()
	if err != nil {
		h.logger.Error("manual reload failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.SetResult(res)

	if h.hub != nil {
		h.hub.Broadcast(websocket.Message{
			Type: websocket.EventDatasetReloaded,
			Extra: map[string]any{
				"member_rows":      res.MemberRows,
				"appointment_rows": res.AppointmentRows,
				"errors":           res.Report.Count(integrity.SeverityError),
				"warnings":         res.Report.Count(integrity.SeverityWarning),
			},
		})
	}

	writeJSON(w, http.StatusOK, res)
}
