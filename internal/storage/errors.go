// Package storage содержит ошибки слоя хранения, общие для всех реализаций.
// Сервисы сравнивают с ними через errors.Is и не зависят от конкретной БД.
package storage

import "errors"

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists — нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrReferenceMissing — запись ссылается на несуществующую.
	ErrReferenceMissing = errors.New("referenced record missing")
)
