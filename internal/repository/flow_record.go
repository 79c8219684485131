package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cnChenKai/wenjianne/internal/domain/model"
)

// flowColumns — список колонок таблицы flow_records для SELECT/RETURNING.
const flowColumns = `id, document_id, action_type, operator_name, recipient_name,
		returner_name, stage, notes, flow_time`

// FlowRepository — интерфейс доступа к журналу движения документов.
type FlowRepository interface {
	// AppendWithStatus атомарно добавляет запись движения и обновляет
	// статус документа. Заполняет ID и FlowTime записи.
	AppendWithStatus(ctx context.Context, rec *model.FlowRecord, newStatus string) error
	// ListByDocument возвращает историю движения документа,
	// старые записи первыми.
	ListByDocument(ctx context.Context, documentID int64) ([]*model.FlowRecord, error)
}

// flowRepo — реализация FlowRepository.
// Запись движения и смена статуса — одна транзакция, поэтому
// репозиторий держит TxRunner, а не только DBTX.
type flowRepo struct {
	db DBTX
	tx *TxRunner
}

// NewFlowRepository создаёт репозиторий журнала движения.
func NewFlowRepository(db DBTX, tx *TxRunner) FlowRepository {
	return &flowRepo{db: db, tx: tx}
}

func (r *flowRepo) AppendWithStatus(ctx context.Context, rec *model.FlowRecord, newStatus string) error {
	return r.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := appendFlowRecord(ctx, tx, rec); err != nil {
			return err
		}
		return setDocumentStatus(ctx, tx, rec.DocumentID, newStatus)
	})
}

func (r *flowRepo) ListByDocument(ctx context.Context, documentID int64) ([]*model.FlowRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM flow_records
		WHERE document_id = $1
		ORDER BY flow_time ASC, id ASC`, flowColumns)

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории движения: %w", err)
	}
	defer rows.Close()

	var result []*model.FlowRecord
	for rows.Next() {
		rec := &model.FlowRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.DocumentID, &rec.ActionType, &rec.OperatorName,
			&rec.RecipientName, &rec.ReturnerName, &rec.Stage, &rec.Notes, &rec.FlowTime,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи движения: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// appendFlowRecord вставляет запись движения, заполняет ID и FlowTime.
func appendFlowRecord(ctx context.Context, db DBTX, rec *model.FlowRecord) error {
	query := `
		INSERT INTO flow_records (document_id, action_type, operator_name,
			recipient_name, returner_name, stage, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, flow_time`

	err := db.QueryRow(ctx, query,
		rec.DocumentID, rec.ActionType, rec.OperatorName,
		rec.RecipientName, rec.ReturnerName, rec.Stage, rec.Notes,
	).Scan(&rec.ID, &rec.FlowTime)
	if err != nil {
		return fmt.Errorf("ошибка добавления записи движения: %w", err)
	}
	return nil
}

// setDocumentStatus обновляет отображаемую строку статуса документа.
func setDocumentStatus(ctx context.Context, db DBTX, id int64, status string) error {
	tag, err := db.Exec(ctx, `UPDATE documents SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса документа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
