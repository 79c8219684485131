// documents.go — обработчики учёта документов:
// постановка на учёт, поиск, карточка, завершение.
package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/cnChenKai/wenjianne/internal/api/errors"
	"github.com/cnChenKai/wenjianne/internal/domain/model"
	"github.com/cnChenKai/wenjianne/internal/repository"
	"github.com/cnChenKai/wenjianne/internal/service"
)

// Сообщения контракта API. Строки фиксированы, клиенты сверяют их дословно.
const (
	msgDocumentCreated   = "Document created successfully"
	msgDocumentCompleted = "Document marked as completed and archived"
	msgAlreadyArchived   = "Document is already archived"
)

// createDocumentRequest — тело запроса постановки на учёт.
// serial_number опционален: без него номер выделяется автоматически.
type createDocumentRequest struct {
	SerialNumber    string  `json:"serial_number"`
	Name            string  `json:"name"`
	DocumentNumber  *string `json:"document_number"`
	OriginatingUnit string  `json:"originating_unit"`
	Deadline        *string `json:"deadline"`
	Category        *string `json:"category"`
}

// completeDocumentRequest — тело запроса завершения.
type completeDocumentRequest struct {
	CompletedBy string `json:"completed_by"`
}

// CreateDocument — POST /documents. Ставит документ на учёт.
func (h *APIHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var deadline *model.Date
	if req.Deadline != nil && *req.Deadline != "" {
		d, err := model.ParseDate(*req.Deadline)
		if err != nil {
			apierrors.ValidationError(w, "Invalid deadline, expected format YYYY-MM-DD")
			return
		}
		deadline = &d
	}

	doc, err := h.documents.Create(r.Context(), service.CreateDocumentInput{
		SerialNumber:    req.SerialNumber,
		Name:            req.Name,
		DocumentNumber:  req.DocumentNumber,
		OriginatingUnit: req.OriginatingUnit,
		Deadline:        deadline,
		Category:        req.Category,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":       msgDocumentCreated,
		"id":            doc.ID,
		"serial_number": doc.SerialNumber,
	})
}

// SearchDocuments — GET /documents. Поиск по фильтрам, новые первыми.
func (h *APIHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := repository.SearchParams{}
	strFilter := func(key string) *string {
		if v := q.Get(key); v != "" {
			return &v
		}
		return nil
	}
	params.NameKeyword = strFilter("name")
	params.DocumentNumber = strFilter("document_number")
	params.OriginatingUnit = strFilter("originating_unit")
	params.Category = strFilter("category")
	params.Status = strFilter("status")

	dateFilter := func(key string) (*model.Date, bool) {
		v := q.Get(key)
		if v == "" {
			return nil, true
		}
		d, err := model.ParseDate(v)
		if err != nil {
			apierrors.ValidationError(w, "Invalid date in parameter "+key+", expected format YYYY-MM-DD")
			return nil, false
		}
		return &d, true
	}
	var ok bool
	if params.EntryDateFrom, ok = dateFilter("entry_date_from"); !ok {
		return
	}
	if params.EntryDateTo, ok = dateFilter("entry_date_to"); !ok {
		return
	}

	docs, err := h.documents.Search(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if docs == nil {
		docs = []*model.Document{}
	}

	writeJSON(w, http.StatusOK, docs)
}

// GetDocument — GET /documents/{id}. Карточка документа.
func (h *APIHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	doc, err := h.documents.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// CompleteDocument — POST /documents/{id}/complete.
// Завершает документ и отправляет в архив. Повтор — 409 с текущей карточкой.
func (h *APIHandler) CompleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req completeDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := h.documents.Complete(r.Context(), id, req.CompletedBy)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyArchived) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"message":  msgAlreadyArchived,
				"document": doc,
			})
			return
		}
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  msgDocumentCompleted,
		"document": doc,
	})
}
