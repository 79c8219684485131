// personnel.go — обработчики справочника исполнителей.
package handlers

import (
	"net/http"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
)

// createPersonnelRequest — тело запроса добавления сотрудника.
type createPersonnelRequest struct {
	Name string  `json:"name"`
	Role *string `json:"role"`
}

// ListPersonnel — GET /personnel. Справочник в алфавитном порядке.
func (h *APIHandler) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	list, err := h.personnel.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if list == nil {
		list = []*model.Personnel{}
	}

	writeJSON(w, http.StatusOK, list)
}

// CreatePersonnel — POST /personnel. Добавляет сотрудника в справочник.
func (h *APIHandler) CreatePersonnel(w http.ResponseWriter, r *http.Request) {
	var req createPersonnelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.personnel.Create(r.Context(), req.Name, req.Role)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}
