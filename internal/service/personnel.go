// personnel.go — сервис справочника исполнителей.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
	"github.com/cnChenKai/wenjianne/internal/repository"
)

// PersonnelService — сервис справочника исполнителей.
type PersonnelService struct {
	repo   repository.PersonnelRepository
	logger *slog.Logger
}

// NewPersonnelService создаёт сервис справочника исполнителей.
func NewPersonnelService(repo repository.PersonnelRepository, logger *slog.Logger) *PersonnelService {
	return &PersonnelService{
		repo:   repo,
		logger: logger.With(slog.String("component", "personnel_service")),
	}
}

// Create добавляет сотрудника в справочник.
func (s *PersonnelService) Create(ctx context.Context, name string, role *string) (*model.Personnel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	p := &model.Personnel{
		Name: strings.TrimSpace(name),
		Role: role,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("добавление сотрудника: %w", err)
	}

	s.logger.Info("Сотрудник добавлен в справочник",
		slog.Int64("personnel_id", p.ID),
		slog.String("name", p.Name),
	)

	return p, nil
}

// List возвращает справочник исполнителей в алфавитном порядке.
func (s *PersonnelService) List(ctx context.Context) ([]*model.Personnel, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение справочника: %w", err)
	}
	return list, nil
}
