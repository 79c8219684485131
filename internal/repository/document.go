package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
)

// documentColumns — список колонок таблицы documents для SELECT/RETURNING.
const documentColumns = `id, serial_number, name, document_number, originating_unit,
		deadline, category, entry_time, status, completed_by, completion_time`

// SearchParams — фильтры поиска документов. Nil-поле — фильтр не применяется,
// все заданные фильтры комбинируются через AND.
type SearchParams struct {
	// NameKeyword — подстрока названия (без учёта регистра)
	NameKeyword *string
	// DocumentNumber — подстрока исходящего номера
	DocumentNumber *string
	// OriginatingUnit — подстрока подразделения-источника
	OriginatingUnit *string
	// Category — точное совпадение категории
	Category *string
	// Status — точное совпадение отображаемой строки статуса
	Status *string
	// EntryDateFrom — дата постановки на учёт не раньше (включительно)
	EntryDateFrom *model.Date
	// EntryDateTo — дата постановки на учёт не позже (включительно)
	EntryDateTo *model.Date
}

// DocumentRepository — интерфейс доступа к таблице documents.
type DocumentRepository interface {
	// Create регистрирует документ, заполняет ID, EntryTime и Status.
	Create(ctx context.Context, d *model.Document) error
	// GetByID возвращает документ по идентификатору.
	GetByID(ctx context.Context, id int64) (*model.Document, error)
	// Search возвращает документы по фильтрам, новые первыми.
	Search(ctx context.Context, params SearchParams) ([]*model.Document, error)
	// Complete переводит документ в статус archived.
	// Для уже завершённого документа возвращает ErrConflict и текущее состояние.
	Complete(ctx context.Context, id int64, completedBy string) (*model.Document, error)
	// NextSerialNumber выделяет следующий учётный номер.
	NextSerialNumber(ctx context.Context) (string, error)
}

// documentRepo — реализация DocumentRepository.
type documentRepo struct {
	db DBTX
}

// NewDocumentRepository создаёт репозиторий документов.
func NewDocumentRepository(db DBTX) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, d *model.Document) error {
	query := `
		INSERT INTO documents (serial_number, name, document_number, originating_unit,
			deadline, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, entry_time, status`

	err := r.db.QueryRow(ctx, query,
		d.SerialNumber, d.Name, d.DocumentNumber, d.OriginatingUnit,
		d.Deadline, d.Category,
	).Scan(&d.ID, &d.EntryTime, &d.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: документ с таким учётным номером уже зарегистрирован", ErrConflict)
		}
		return fmt.Errorf("ошибка регистрации документа: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE id = $1`, documentColumns)

	d := &model.Document{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.SerialNumber, &d.Name, &d.DocumentNumber, &d.OriginatingUnit,
		&d.Deadline, &d.Category, &d.EntryTime, &d.Status, &d.CompletedBy, &d.CompletionTime,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения документа: %w", err)
	}
	return d, nil
}

// buildSearchWhere строит WHERE-условие и аргументы по фильтрам поиска.
func buildSearchWhere(params SearchParams, startArg int) (string, []any) {
	var conditions []string
	var args []any
	argNum := startArg

	if params.NameKeyword != nil {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argNum))
		args = append(args, "%"+*params.NameKeyword+"%")
		argNum++
	}
	if params.DocumentNumber != nil {
		conditions = append(conditions, fmt.Sprintf("document_number ILIKE $%d", argNum))
		args = append(args, "%"+*params.DocumentNumber+"%")
		argNum++
	}
	if params.OriginatingUnit != nil {
		conditions = append(conditions, fmt.Sprintf("originating_unit ILIKE $%d", argNum))
		args = append(args, "%"+*params.OriginatingUnit+"%")
		argNum++
	}
	if params.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argNum))
		args = append(args, *params.Category)
		argNum++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, *params.Status)
		argNum++
	}
	// Диапазон по дате: сравнивается календарная дата entry_time,
	// обе границы включительно.
	if params.EntryDateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("entry_time::date >= $%d::date", argNum))
		args = append(args, *params.EntryDateFrom)
		argNum++
	}
	if params.EntryDateTo != nil {
		conditions = append(conditions, fmt.Sprintf("entry_time::date <= $%d::date", argNum))
		args = append(args, *params.EntryDateTo)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args
}

func (r *documentRepo) Search(ctx context.Context, params SearchParams) ([]*model.Document, error) {
	where, args := buildSearchWhere(params, 1)

	query := fmt.Sprintf(`
		SELECT %s
		FROM documents
		%s
		ORDER BY entry_time DESC, id DESC`, documentColumns, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска документов: %w", err)
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

func (r *documentRepo) Complete(ctx context.Context, id int64, completedBy string) (*model.Document, error) {
	// Завершение идемпотентно на уровне SQL: условие на статус
	// гарантирует, что повторный вызов не перезапишет completed_by
	// и completion_time.
	query := fmt.Sprintf(`
		UPDATE documents
		SET status = 'archived', completed_by = $2, completion_time = now()
		WHERE id = $1 AND status != 'archived'
		RETURNING %s`, documentColumns)

	d := &model.Document{}
	err := r.db.QueryRow(ctx, query, id, completedBy).Scan(
		&d.ID, &d.SerialNumber, &d.Name, &d.DocumentNumber, &d.OriginatingUnit,
		&d.Deadline, &d.Category, &d.EntryTime, &d.Status, &d.CompletedBy, &d.CompletionTime,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Либо документа нет, либо он уже archived — различаем чтением.
			current, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			return current, ErrConflict
		}
		return nil, fmt.Errorf("ошибка завершения документа: %w", err)
	}
	return d, nil
}

func (r *documentRepo) NextSerialNumber(ctx context.Context) (string, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT nextval('document_serial_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("ошибка выделения учётного номера: %w", err)
	}
	return fmt.Sprintf("WJ-%06d", n), nil
}
