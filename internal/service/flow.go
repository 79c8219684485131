// flow.go — сервис движения документов.
// Передача, возврат, история движения. Каждое движение атомарно
// пишет запись в журнал и обновляет статус документа.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
	"github.com/cnChenKai/wenjianne/internal/repository"
)

// Метрики движения документов.
var flowActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wj_flow_actions_total",
	Help: "Общее количество операций движения документов.",
}, []string{"action"})

// SendInput — данные передачи документа.
type SendInput struct {
	RecipientName string
	Stage         string
	OperatorName  string
	Notes         *string
}

// ReceiveInput — данные возврата документа.
type ReceiveInput struct {
	ReturnerName string
	Stage        string
	OperatorName string
	Notes        *string
}

// FlowService — сервис движения документов.
type FlowService struct {
	flowRepo repository.FlowRepository
	docRepo  repository.DocumentRepository
	logger   *slog.Logger
}

// NewFlowService создаёт сервис движения документов.
func NewFlowService(
	flowRepo repository.FlowRepository,
	docRepo repository.DocumentRepository,
	logger *slog.Logger,
) *FlowService {
	return &FlowService{
		flowRepo: flowRepo,
		docRepo:  docRepo,
		logger:   logger.With(slog.String("component", "flow_service")),
	}
}

// Send передаёт документ получателю на этап маршрута.
func (s *FlowService) Send(ctx context.Context, documentID int64, in SendInput) (*model.FlowRecord, error) {
	if strings.TrimSpace(in.RecipientName) == "" {
		return nil, fmt.Errorf("%w: recipient_name is required", ErrValidation)
	}
	if strings.TrimSpace(in.Stage) == "" {
		return nil, fmt.Errorf("%w: stage is required", ErrValidation)
	}
	if strings.TrimSpace(in.OperatorName) == "" {
		return nil, fmt.Errorf("%w: sender_name is required", ErrValidation)
	}

	recipient := strings.TrimSpace(in.RecipientName)
	stage := strings.TrimSpace(in.Stage)

	if err := s.checkMovable(ctx, documentID); err != nil {
		return nil, err
	}

	rec := &model.FlowRecord{
		DocumentID:    documentID,
		ActionType:    model.ActionSend,
		OperatorName:  strings.TrimSpace(in.OperatorName),
		RecipientName: &recipient,
		Stage:         stage,
		Notes:         in.Notes,
	}
	newStatus := model.SentStatus(recipient, stage)

	if err := s.flowRepo.AppendWithStatus(ctx, rec, newStatus.String()); err != nil {
		return nil, fmt.Errorf("передача документа: %w", err)
	}

	flowActionsTotal.WithLabelValues(model.ActionSend).Inc()
	s.logger.Info("Документ передан",
		slog.Int64("document_id", documentID),
		slog.String("recipient", recipient),
		slog.String("stage", stage),
	)

	return rec, nil
}

// Receive фиксирует возврат документа с этапа маршрута.
func (s *FlowService) Receive(ctx context.Context, documentID int64, in ReceiveInput) (*model.FlowRecord, error) {
	if strings.TrimSpace(in.ReturnerName) == "" {
		return nil, fmt.Errorf("%w: returner_name is required", ErrValidation)
	}
	if strings.TrimSpace(in.Stage) == "" {
		return nil, fmt.Errorf("%w: stage is required", ErrValidation)
	}
	if strings.TrimSpace(in.OperatorName) == "" {
		return nil, fmt.Errorf("%w: receiver_name is required", ErrValidation)
	}

	returner := strings.TrimSpace(in.ReturnerName)
	stage := strings.TrimSpace(in.Stage)

	if err := s.checkMovable(ctx, documentID); err != nil {
		return nil, err
	}

	rec := &model.FlowRecord{
		DocumentID:   documentID,
		ActionType:   model.ActionReceive,
		OperatorName: strings.TrimSpace(in.OperatorName),
		ReturnerName: &returner,
		Stage:        stage,
		Notes:        in.Notes,
	}
	newStatus := model.ReceivedStatus(returner, stage)

	if err := s.flowRepo.AppendWithStatus(ctx, rec, newStatus.String()); err != nil {
		return nil, fmt.Errorf("возврат документа: %w", err)
	}

	flowActionsTotal.WithLabelValues(model.ActionReceive).Inc()
	s.logger.Info("Документ возвращён",
		slog.Int64("document_id", documentID),
		slog.String("returner", returner),
		slog.String("stage", stage),
	)

	return rec, nil
}

// History возвращает историю движения документа в хронологическом порядке.
func (s *FlowService) History(ctx context.Context, documentID int64) ([]*model.FlowRecord, error) {
	// Явная проверка существования: пустая история и неизвестный
	// документ — разные ответы.
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("проверка документа: %w", err)
	}

	history, err := s.flowRepo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("получение истории движения: %w", err)
	}
	return history, nil
}

// checkMovable проверяет, что документ существует и не в архиве.
func (s *FlowService) checkMovable(ctx context.Context, documentID int64) error {
	d, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("проверка документа: %w", err)
	}
	if model.ParseStatus(d.Status).IsArchived() {
		return ErrAlreadyArchived
	}
	return nil
}
