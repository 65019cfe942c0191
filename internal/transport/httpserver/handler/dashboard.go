package handler

import (
	"context"
	"net/http"
)

func (h *Handlers) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Dashboard.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// invalidateDashboard runs after writes that change customer, membership or
// boxing counts.
func (h *Handlers) invalidateDashboard(r *http.Request) {
	if h.Dashboard == nil {
		return
	}
	h.Dashboard.Invalidate(context.WithoutCancel(r.Context()))
}
