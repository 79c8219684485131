// documents.go — сервис учёта документов.
// Постановка на учёт, карточка, поиск, завершение с отправкой в архив.
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

// Метрики документооборота.
var (
	documentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wj_documents_created_total",
		Help: "Общее количество документов, поставленных на учёт.",
	})
	documentsArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wj_documents_archived_total",
		Help: "Общее количество документов, отправленных в архив.",
	})
)

// CreateDocumentInput — данные для постановки документа на учёт.
// SerialNumber опционален: пустое значение — номер выделяется автоматически.
type CreateDocumentInput struct {
	SerialNumber    string
	Name            string
	DocumentNumber  *string
	OriginatingUnit string
	Deadline        *model.Date
	Category        *string
}

// DocumentService — сервис учёта документов.
type DocumentService struct {
	docRepo repository.DocumentRepository
	logger  *slog.Logger
}

// NewDocumentService создаёт сервис учёта документов.
func NewDocumentService(docRepo repository.DocumentRepository, logger *slog.Logger) *DocumentService {
	return &DocumentService{
		docRepo: docRepo,
		logger:  logger.With(slog.String("component", "document_service")),
	}
}

// Create ставит документ на учёт: выделяет учётный номер и сохраняет карточку.
func (s *DocumentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(in.OriginatingUnit) == "" {
		return nil, fmt.Errorf("%w: originating_unit is required", ErrValidation)
	}

	// Учётный номер клиента — как есть, иначе выделяем из последовательности.
	serial := strings.TrimSpace(in.SerialNumber)
	if serial == "" {
		var err error
		serial, err = s.docRepo.NextSerialNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("выделение учётного номера: %w", err)
		}
	}

	d := &model.Document{
		SerialNumber:    serial,
		Name:            strings.TrimSpace(in.Name),
		DocumentNumber:  in.DocumentNumber,
		OriginatingUnit: strings.TrimSpace(in.OriginatingUnit),
		Deadline:        in.Deadline,
		Category:        in.Category,
	}

	if err := s.docRepo.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: serial number '%s' is already in use", ErrConflict, serial)
		}
		return nil, fmt.Errorf("постановка документа на учёт: %w", err)
	}

	documentsCreatedTotal.Inc()
	s.logger.Info("Документ поставлен на учёт",
		slog.Int64("document_id", d.ID),
		slog.String("serial_number", d.SerialNumber),
		slog.String("name", d.Name),
	)

	return d, nil
}

// Get возвращает карточку документа по ID.
func (s *DocumentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	d, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение документа: %w", err)
	}
	return d, nil
}

// Search ищет документы по фильтрам, новые первыми.
func (s *DocumentService) Search(ctx context.Context, params repository.SearchParams) ([]*model.Document, error) {
	docs, err := s.docRepo.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("поиск документов: %w", err)
	}
	return docs, nil
}

// Complete завершает документ и отправляет его в архив.
// Для уже завершённого документа возвращает текущую карточку
// вместе с ErrAlreadyArchived — повтор не перезаписывает архив.
func (s *DocumentService) Complete(ctx context.Context, id int64, completedBy string) (*model.Document, error) {
	if strings.TrimSpace(completedBy) == "" {
		return nil, fmt.Errorf("%w: completed_by is required", ErrValidation)
	}

	d, err := s.docRepo.Complete(ctx, id, strings.TrimSpace(completedBy))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrConflict):
			return d, ErrAlreadyArchived
		default:
			return nil, fmt.Errorf("завершение документа: %w", err)
		}
	}

	documentsArchivedTotal.Inc()
	s.logger.Info("Документ завершён и отправлен в архив",
		slog.Int64("document_id", d.ID),
		slog.String("serial_number", d.SerialNumber),
		slog.String("completed_by", completedBy),
	)

	return d, nil
}
