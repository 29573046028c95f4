package handler

import (
	"log/slog"
	"net/http"

	"github.com/kamerdata/kamerarchief/internal/archive"
	"github.com/kamerdata/kamerarchief/internal/model"
	"github.com/kamerdata/kamerarchief/internal/store"
)

// ArchiveHandler exposes snapshot status and on-demand snapshot runs.
type ArchiveHandler struct {
	manager      *archive.Manager
	archiveStore *store.ArchiveStore
	logger       *slog.Logger
}

func NewArchiveHandler(m *archive.Manager, as *store.ArchiveStore, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{manager: m, archiveStore: as, logger: logger}
}

// List handles GET /api/archive: manager status plus recent snapshot ledger
// entries.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	objects, err := h.archiveStore.List(50)
	if err != nil {
		h.logger.Error("list archive objects", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if objects == nil {
		objects = []model.ArchiveObject{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    h.manager.Status(),
		"snapshots": objects,
	})
}

// Run handles POST /api/archive/run: snapshot both dataset files now.
func (h *ArchiveHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeError(w, http.StatusConflict, "snapshot storage is not configured")
		return
	}

	objects, err := h.manager.RunNow(r.Context())
	if err != nil {
		h.logger.Error("manual snapshot failed", "error", err)
		writeError(w, http.StatusInternalServerError, "snapshot failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, objects)
}
