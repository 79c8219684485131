package model

import "time"

// Уровни срочности для контрольного списка.
const (
	// UrgencyOverdue — контрольный срок уже прошёл.
	UrgencyOverdue = "overdue"
	// UrgencyNearingDeadline — срок в пределах настроенного окна.
	UrgencyNearingDeadline = "nearing_deadline"
)

// DueRecall — документ, находящийся "на руках" (последнее действие — send,
// возврата и завершения не было).
type DueRecall struct {
	// DocumentID — идентификатор документа
	DocumentID int64 `json:"id"`
	// SerialNumber — учётный номер документа
	SerialNumber string `json:"serial_number"`
	// Name — название документа
	Name string `json:"name"`
	// OriginatingUnit — подразделение-источник
	OriginatingUnit string `json:"originating_unit"`
	// RecipientName — у кого находится документ
	RecipientName *string `json:"recipient_name"`
	// Stage — этап, на котором передан документ
	Stage string `json:"stage"`
	// SentAt — время передачи
	SentAt time.Time `json:"sent_at"`
	// Deadline — контрольный срок (может отсутствовать)
	Deadline *Date `json:"deadline"`
	// Overdue — срок прошёл (deadline < сегодня)
	Overdue bool `json:"overdue"`
}

// OverdueDocument — незавершённый документ с контрольным сроком,
// классифицированный по срочности.
type OverdueDocument struct {
	Document
	// Urgency — overdue или nearing_deadline
	Urgency string `json:"urgency"`
	// DaysLeft — дней до срока (отрицательное — срок прошёл)
	DaysLeft int `json:"days_left"`
}
