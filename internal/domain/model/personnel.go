package model

import "time"

// Personnel — сотрудник из справочника исполнителей.
// Имя не уникально: полные тёзки — допустимая ситуация,
// идентичность определяет суррогатный ID.
type Personnel struct {
	// ID — идентификатор записи
	ID int64 `json:"id"`
	// Name — имя сотрудника
	Name string `json:"name"`
	// Role — должность (опционально)
	Role *string `json:"role"`
	// CreatedAt — время добавления в справочник
	CreatedAt time.Time `json:"created_at"`
}
