// Package common содержит ошибки, общие для всех слоёв сервиса.
// Сервисы и хранилище оборачивают их через fmt.Errorf("...: %w"),
// HTTP-слой классифицирует ошибку через errors.Is и выбирает статус ответа.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation — некорректные или семантически неверные входные данные.
	ErrValidation = errors.New("validation error")

	// ErrNotFound — пользователь или подписка с указанным ID не существует.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — нарушение уникальности (email, пара пользователь+сервис).
	ErrAlreadyExists = errors.New("already exists")

	// ErrOwnershipMismatch — подписка существует, но принадлежит другому пользователю.
	ErrOwnershipMismatch = errors.New("subscription does not belong to user")
)

// Error — ошибка одного из видов выше с сообщением, пригодным для клиента.
// errors.Is(err, Kind) срабатывает через Unwrap.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError создаёт ошибку вида kind с форматированным сообщением.
func NewError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
