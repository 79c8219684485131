// flow.go — обработчики движения документов: передача, возврат, история.
package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/cnChenKai/wenjianne/internal/api/errors"
	"github.com/cnChenKai/wenjianne/internal/domain/model"
	"github.com/cnChenKai/wenjianne/internal/service"
)

// Сообщения контракта API движения документов.
const (
	msgDocumentSent     = "Document sent successfully"
	msgDocumentReceived = "Document received successfully"
)

// sendDocumentRequest — тело запроса передачи.
// sender_name — кто передаёт; в журнале хранится как operator_name.
type sendDocumentRequest struct {
	RecipientName string  `json:"recipient_name"`
	Stage         string  `json:"stage"`
	SenderName    string  `json:"sender_name"`
	Notes         *string `json:"notes"`
}

// receiveDocumentRequest — тело запроса возврата.
// receiver_name — кто принимает; в журнале хранится как operator_name.
type receiveDocumentRequest struct {
	ReturnerName string  `json:"returner_name"`
	Stage        string  `json:"stage"`
	ReceiverName string  `json:"receiver_name"`
	Notes        *string `json:"notes"`
}

// SendDocument — POST /documents/{id}/send. Передача документа получателю.
func (h *APIHandler) SendDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req sendDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.flow.Send(r.Context(), id, service.SendInput{
		RecipientName: req.RecipientName,
		Stage:         req.Stage,
		OperatorName:  req.SenderName,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrAlreadyArchived) {
			apierrors.Conflict(w, msgAlreadyArchived)
			return
		}
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     msgDocumentSent,
		"flow_record": rec,
	})
}

// ReceiveDocument — POST /documents/{id}/receive. Возврат документа.
func (h *APIHandler) ReceiveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req receiveDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.flow.Receive(r.Context(), id, service.ReceiveInput{
		ReturnerName: req.ReturnerName,
		Stage:        req.Stage,
		OperatorName: req.ReceiverName,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrAlreadyArchived) {
			apierrors.Conflict(w, msgAlreadyArchived)
			return
		}
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     msgDocumentReceived,
		"flow_record": rec,
	})
}

// FlowHistory — GET /documents/{id}/flow. История движения документа.
func (h *APIHandler) FlowHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	history, err := h.flow.History(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if history == nil {
		history = []*model.FlowRecord{}
	}

	writeJSON(w, http.StatusOK, history)
}
