// status.go — внутренняя модель статуса документа.
//
// В БД статус хранится отображаемой строкой ("Sent to X at stage Y",
// "Received from X at stage Y", "archived") для совместимости с поиском
// по точному совпадению. Внутри кода статус — тегированный вариант:
// бизнес-логика работает с Kind/Actor/Stage, строка генерируется и
// разбирается только на границе.
package model

import (
	"fmt"
	"strings"
)

// StatusKind — вид статуса документа.
type StatusKind int

const (
	// StatusPending — на учёте, движения не было.
	StatusPending StatusKind = iota
	// StatusSent — передан (последнее действие — send).
	StatusSent
	// StatusReceived — возвращён (последнее действие — receive).
	StatusReceived
	// StatusArchived — завершён, дальнейшее движение запрещено.
	StatusArchived
)

// StatusArchivedLabel — терминальная отображаемая строка статуса.
const StatusArchivedLabel = "archived"

// Префиксы и разделитель отображаемых строк статуса.
const (
	sentPrefix     = "Sent to "
	receivedPrefix = "Received from "
	stageSeparator = " at stage "
)

// Status — тегированный статус документа.
// Actor — получатель (Sent) или вернувший (Received); Stage — этап маршрута.
type Status struct {
	Kind  StatusKind
	Actor string
	Stage string
}

// SentStatus возвращает статус "передан получателю на этапе".
func SentStatus(recipient, stage string) Status {
	return Status{Kind: StatusSent, Actor: recipient, Stage: stage}
}

// ReceivedStatus возвращает статус "возвращён с этапа".
func ReceivedStatus(returner, stage string) Status {
	return Status{Kind: StatusReceived, Actor: returner, Stage: stage}
}

// ArchivedStatus возвращает терминальный статус.
func ArchivedStatus() Status {
	return Status{Kind: StatusArchived}
}

// String возвращает отображаемую строку статуса для хранения и выдачи.
// Для StatusPending — пустая строка.
func (s Status) String() string {
	switch s.Kind {
	case StatusSent:
		return fmt.Sprintf("%s%s%s%s", sentPrefix, s.Actor, stageSeparator, s.Stage)
	case StatusReceived:
		return fmt.Sprintf("%s%s%s%s", receivedPrefix, s.Actor, stageSeparator, s.Stage)
	case StatusArchived:
		return StatusArchivedLabel
	default:
		return ""
	}
}

// IsArchived сообщает, является ли статус терминальным.
func (s Status) IsArchived() bool {
	return s.Kind == StatusArchived
}

// ParseStatus разбирает отображаемую строку статуса.
// Неопознанные строки трактуются как StatusPending — для документов,
// созданных до ввода строгого формата статуса.
func ParseStatus(raw string) Status {
	if raw == StatusArchivedLabel {
		return Status{Kind: StatusArchived}
	}

	if rest, ok := strings.CutPrefix(raw, sentPrefix); ok {
		if actor, stage, found := strings.Cut(rest, stageSeparator); found {
			return Status{Kind: StatusSent, Actor: actor, Stage: stage}
		}
	}
	if rest, ok := strings.CutPrefix(raw, receivedPrefix); ok {
		if actor, stage, found := strings.Cut(rest, stageSeparator); found {
			return Status{Kind: StatusReceived, Actor: actor, Stage: stage}
		}
	}

	return Status{Kind: StatusPending}
}
