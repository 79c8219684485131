package model

import "time"

// Типы действий в журнале движения.
const (
	// ActionSend — передача документа.
	ActionSend = "send"
	// ActionReceive — возврат документа.
	ActionReceive = "receive"
)

// FlowRecord — запись журнала движения документа.
// Неизменяемая после создания: записи никогда не обновляются и не удаляются.
type FlowRecord struct {
	// ID — идентификатор записи
	ID int64 `json:"id"`
	// DocumentID — документ, к которому относится запись
	DocumentID int64 `json:"document_id"`
	// ActionType — тип действия: send или receive
	ActionType string `json:"action_type"`
	// OperatorName — кто выполнил действие
	OperatorName string `json:"operator_name"`
	// RecipientName — кому передан документ (только для send)
	RecipientName *string `json:"recipient_name"`
	// ReturnerName — кто вернул документ (только для receive)
	ReturnerName *string `json:"returner_name"`
	// Stage — этап маршрута (произвольная строка)
	Stage string `json:"stage"`
	// Notes — примечания (опционально)
	Notes *string `json:"notes"`
	// FlowTime — время действия, единственный ключ сортировки истории
	FlowTime time.Time `json:"flow_time"`
}
