// dashboard.go — сервис сводной панели.
// Агрегаты дня, список документов на руках, контроль сроков.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
	"github.com/cnChenKai/wenjianne/internal/repository"
)

// Statistics — сводные показатели панели.
type Statistics struct {
	// TotalPending — незавершённые документы
	TotalPending int `json:"total_pending"`
	// CreatedToday — поставлено на учёт сегодня
	CreatedToday int `json:"created_today"`
	// CompletedToday — завершено сегодня
	CompletedToday int `json:"completed_today"`
}

// DashboardService — сервис сводной панели.
type DashboardService struct {
	dashRepo repository.DashboardRepository
	// windowDays — окно "срок приближается" в днях
	windowDays int
	logger     *slog.Logger
	// now подменяется в тестах
	now func() time.Time
}

// NewDashboardService создаёт сервис сводной панели.
func NewDashboardService(dashRepo repository.DashboardRepository, windowDays int, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		dashRepo:   dashRepo,
		windowDays: windowDays,
		logger:     logger.With(slog.String("component", "dashboard_service")),
		now:        time.Now,
	}
}

// Statistics возвращает сводные показатели за сегодня.
func (s *DashboardService) Statistics(ctx context.Context) (*Statistics, error) {
	today := model.DateOf(s.now())

	pending, err := s.dashRepo.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("подсчёт незавершённых: %w", err)
	}
	created, err := s.dashRepo.CountCreatedOn(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("подсчёт поставленных на учёт: %w", err)
	}
	completed, err := s.dashRepo.CountCompletedOn(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("подсчёт завершённых: %w", err)
	}

	return &Statistics{
		TotalPending:   pending,
		CreatedToday:   created,
		CompletedToday: completed,
	}, nil
}

// DueRecalls возвращает документы на руках с признаком просрочки.
func (s *DashboardService) DueRecalls(ctx context.Context) ([]*model.DueRecall, error) {
	recalls, err := s.dashRepo.DueRecalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение документов на руках: %w", err)
	}

	today := model.DateOf(s.now())
	for _, r := range recalls {
		r.Overdue = r.Deadline != nil && r.Deadline.Before(today)
	}
	return recalls, nil
}

// OverdueDocuments возвращает незавершённые документы с контрольным сроком,
// разбитые по срочности: просроченные и те, чей срок в пределах окна.
// Документы с запасом больше окна в список не попадают.
func (s *DashboardService) OverdueDocuments(ctx context.Context) ([]*model.OverdueDocument, error) {
	candidates, err := s.dashRepo.OverdueCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение документов с контрольным сроком: %w", err)
	}

	today := model.DateOf(s.now())
	var result []*model.OverdueDocument
	for _, d := range candidates {
		if d.Deadline == nil {
			continue
		}
		daysLeft := d.Deadline.Sub(today)
		switch {
		case daysLeft < 0:
			result = append(result, &model.OverdueDocument{
				Document: *d,
				Urgency:  model.UrgencyOverdue,
				DaysLeft: daysLeft,
			})
		case daysLeft <= s.windowDays:
			result = append(result, &model.OverdueDocument{
				Document: *d,
				Urgency:  model.UrgencyNearingDeadline,
				DaysLeft: daysLeft,
			})
		}
	}
	return result, nil
}
