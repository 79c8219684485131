// errors.go — ошибки бизнес-логики сервисного слоя.
// Тексты английские: они уходят клиентам в поле message вместе
// с остальными строками контракта API.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("conflict: resource already exists")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("validation error")
	// ErrAlreadyArchived — документ уже завершён, движение запрещено.
	ErrAlreadyArchived = errors.New("document is already archived")
)
