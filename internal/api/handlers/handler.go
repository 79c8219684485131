// handler.go — основной обработчик API.
// Объединяет health и бизнес-обработчики, делегируя запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/cnChenKai/wenjianne/internal/api/errors"
	"github.com/cnChenKai/wenjianne/internal/service"
)

// APIHandler — основной обработчик API.
type APIHandler struct {
	health    *HealthHandler
	documents *service.DocumentService
	flow      *service.FlowService
	dashboard *service.DashboardService
	personnel *service.PersonnelService
	logger    *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	documents *service.DocumentService,
	flow *service.FlowService,
	dashboard *service.DashboardService,
	personnel *service.PersonnelService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:    health,
		documents: documents,
		flow:      flow,
		dashboard: dashboard,
		personnel: personnel,
		logger:    logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// parseID извлекает числовой идентификатор из URL.
// Нечисловой идентификатор неотличим от несуществующего ресурса — 404.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		apierrors.NotFound(w, "Document not found")
		return 0, false
	}
	return id, true
}

// decodeBody разбирает JSON-тело запроса в dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.ValidationError(w, "Invalid JSON request body")
		return false
	}
	return true
}

// handleServiceError транслирует ошибку сервисного слоя в HTTP-ответ.
func (h *APIHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Document not found")
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	default:
		h.logger.Error("Внутренняя ошибка", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Internal server error")
	}
}
