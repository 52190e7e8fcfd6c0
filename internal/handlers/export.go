package handlers

import "net/http"

// ExportCSV streams the authenticated user's expenses as a CSV download.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=expenses.csv`)

	if err := h.expenses.ExportCSV(user.ID, w); err != nil {
		// Headers may already be out; log and stop writing.
		h.logger.Error("csv export failed", "error", err, "user_id", user.ID)
	}
}
