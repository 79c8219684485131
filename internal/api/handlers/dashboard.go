// dashboard.go — обработчики сводной панели.
package handlers

import (
	"net/http"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
)

// DashboardStatistics — GET /dashboard/statistics. Сводные показатели дня.
func (h *APIHandler) DashboardStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Statistics(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// DashboardDueRecalls — GET /dashboard/due_recalls. Документы на руках.
func (h *APIHandler) DashboardDueRecalls(w http.ResponseWriter, r *http.Request) {
	recalls, err := h.dashboard.DueRecalls(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if recalls == nil {
		recalls = []*model.DueRecall{}
	}

	writeJSON(w, http.StatusOK, recalls)
}

// DashboardOverdueDocuments — GET /dashboard/overdue_documents.
// Незавершённые документы с контрольным сроком по срочности.
func (h *APIHandler) DashboardOverdueDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.dashboard.OverdueDocuments(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if docs == nil {
		docs = []*model.OverdueDocument{}
	}

	writeJSON(w, http.StatusOK, docs)
}
