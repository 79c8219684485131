// Пакет model — доменные модели сервиса учёта движения документов.
package model

import "time"

// Document — учётная карточка документа.
// Хранится в таблице documents.
type Document struct {
	// ID — идентификатор документа (назначается БД)
	ID int64 `json:"id"`
	// SerialNumber — уникальный учётный номер документа
	SerialNumber string `json:"serial_number"`
	// Name — название документа
	Name string `json:"name"`
	// DocumentNumber — исходящий номер документа (опционально)
	DocumentNumber *string `json:"document_number"`
	// OriginatingUnit — подразделение-источник
	OriginatingUnit string `json:"originating_unit"`
	// Deadline — контрольный срок исполнения (опционально)
	Deadline *Date `json:"deadline"`
	// Category — категория документа (опционально)
	Category *string `json:"category"`
	// EntryTime — время постановки на учёт (назначается при создании, неизменно)
	EntryTime time.Time `json:"entry_time"`
	// Status — отображаемая строка статуса; пустая строка = на учёте, без движения.
	// Терминальное значение — "archived".
	Status string `json:"status"`
	// CompletedBy — кто завершил документ (устанавливается один раз)
	CompletedBy *string `json:"completed_by"`
	// CompletionTime — время завершения (устанавливается один раз)
	CompletionTime *time.Time `json:"completion_time"`
}
