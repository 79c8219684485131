// date.go — календарная дата без компонента времени (колонка DATE).
// В JSON сериализуется строкой "YYYY-MM-DD".
package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout — формат даты в JSON и query-параметрах.
const DateLayout = "2006-01-02"

// Date — календарная дата (без времени и часового пояса).
type Date struct {
	time.Time
}

// NewDate создаёт Date из года, месяца и дня.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf усекает момент времени до календарной даты (в UTC).
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// ParseDate разбирает строку "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("некорректная дата %q (ожидается формат %s)", s, DateLayout)
	}
	return Date{Time: t}, nil
}

// MarshalJSON сериализует дату строкой "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON разбирает дату из строки "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan реализует sql.Scanner для чтения колонки DATE.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("невозможно преобразовать %T в model.Date", src)
	}
}

// Value реализует driver.Valuer для записи колонки DATE.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Before сообщает, предшествует ли дата другой дате.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// Sub возвращает разность дат в целых днях (d минус other).
// Отрицательное значение — дата d раньше other.
func (d Date) Sub(other Date) int {
	return int(d.Time.Sub(other.Time) / (24 * time.Hour))
}
