package repository

import (
	"context"
	"fmt"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
)

// DashboardRepository — агрегатные запросы для сводной панели.
type DashboardRepository interface {
	// CountPending возвращает количество незавершённых документов.
	CountPending(ctx context.Context) (int, error)
	// CountCreatedOn возвращает количество документов, поставленных
	// на учёт в указанную дату.
	CountCreatedOn(ctx context.Context, day model.Date) (int, error)
	// CountCompletedOn возвращает количество документов, завершённых
	// в указанную дату.
	CountCompletedOn(ctx context.Context, day model.Date) (int, error)
	// DueRecalls возвращает документы "на руках": незавершённые,
	// у которых последнее движение — передача. Признак Overdue
	// не заполняется, его вычисляет сервис.
	DueRecalls(ctx context.Context) ([]*model.DueRecall, error)
	// OverdueCandidates возвращает незавершённые документы
	// с заданным контрольным сроком.
	OverdueCandidates(ctx context.Context) ([]*model.Document, error)
}

// dashboardRepo — реализация DashboardRepository.
type dashboardRepo struct {
	db DBTX
}

// NewDashboardRepository создаёт репозиторий сводной панели.
func NewDashboardRepository(db DBTX) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE status != 'archived'`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта незавершённых документов: %w", err)
	}
	return count, nil
}

func (r *dashboardRepo) CountCreatedOn(ctx context.Context, day model.Date) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE entry_time::date = $1::date`, day,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта документов за день: %w", err)
	}
	return count, nil
}

func (r *dashboardRepo) CountCompletedOn(ctx context.Context, day model.Date) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE completion_time::date = $1::date`, day,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта завершённых документов за день: %w", err)
	}
	return count, nil
}

func (r *dashboardRepo) DueRecalls(ctx context.Context) ([]*model.DueRecall, error) {
	// Последнее движение каждого документа выбирается LATERAL-подзапросом;
	// документ попадает в список, только если это движение — передача.
	query := `
		SELECT d.id, d.serial_number, d.name, d.originating_unit,
			fr.recipient_name, fr.stage, fr.flow_time, d.deadline
		FROM documents d
		JOIN LATERAL (
			SELECT action_type, recipient_name, stage, flow_time
			FROM flow_records
			WHERE document_id = d.id
			ORDER BY flow_time DESC, id DESC
			LIMIT 1
		) fr ON fr.action_type = 'send'
		WHERE d.status != 'archived'
		ORDER BY fr.flow_time ASC, d.id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка документов на руках: %w", err)
	}
	defer rows.Close()

	var result []*model.DueRecall
	for rows.Next() {
		rec := &model.DueRecall{}
		if err := rows.Scan(
			&rec.DocumentID, &rec.SerialNumber, &rec.Name, &rec.OriginatingUnit,
			&rec.RecipientName, &rec.Stage, &rec.SentAt, &rec.Deadline,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования документа на руках: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *dashboardRepo) OverdueCandidates(ctx context.Context) ([]*model.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM documents
		WHERE status != 'archived' AND deadline IS NOT NULL
		ORDER BY deadline ASC, id ASC`, documentColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения документов с контрольным сроком: %w", err)
	}
	defer rows.Close()

	var result []*model.Document
	for rows.Next() {
		d := &model.Document{}
		if err := rows.Scan(
			&d.ID, &d.SerialNumber, &d.Name, &d.DocumentNumber, &d.OriginatingUnit,
			&d.Deadline, &d.Category, &d.EntryTime, &d.Status, &d.CompletedBy, &d.CompletionTime,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования документа: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
