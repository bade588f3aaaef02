package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/services"
)

type BackupHandler struct {
	Backup *services.BackupService
}

func NewBackupHandler(backup *services.BackupService) *BackupHandler {
	return &BackupHandler{Backup: backup}
}

// Export serves the backup document as a downloadable attachment.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	doc, err := h.Backup.Export(now)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.Backup.FileName(now)+`"`)
	httpx.JSON(w, http.StatusOK, doc)
}

// Import restores the stores from an uploaded backup document. The caller
// should reload afterwards; live in-memory consumers are not notified.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "read_failed", nil)
		return
	}
	result := h.Backup.Import(raw)
	if !result.Success {
		httpx.JSON(w, http.StatusBadRequest, result)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
