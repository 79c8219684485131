package repository

import (
	"context"
	"fmt"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
)

// PersonnelRepository — интерфейс доступа к справочнику исполнителей.
type PersonnelRepository interface {
	// Create добавляет сотрудника, заполняет ID и CreatedAt.
	Create(ctx context.Context, p *model.Personnel) error
	// List возвращает всех сотрудников в алфавитном порядке.
	List(ctx context.Context) ([]*model.Personnel, error)
}

// personnelRepo — реализация PersonnelRepository.
type personnelRepo struct {
	db DBTX
}

// NewPersonnelRepository создаёт репозиторий справочника исполнителей.
func NewPersonnelRepository(db DBTX) PersonnelRepository {
	return &personnelRepo{db: db}
}

func (r *personnelRepo) Create(ctx context.Context, p *model.Personnel) error {
	query := `
		INSERT INTO personnel (name, role)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, p.Name, p.Role).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка добавления сотрудника: %w", err)
	}
	return nil
}

func (r *personnelRepo) List(ctx context.Context) ([]*model.Personnel, error) {
	query := `
		SELECT id, name, role, created_at
		FROM personnel
		ORDER BY name ASC, id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения справочника исполнителей: %w", err)
	}
	defer rows.Close()

	var result []*model.Personnel
	for rows.Next() {
		p := &model.Personnel{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
