// Package models содержит доменные структуры пользователя и подписки,
// а также структуры для приёма и отдачи данных через HTTP (DTO).
package models

import (
	"strings"
	"time"
)

// User представляет владельца подписок.
type User struct {
	ID        int64     // Идентификатор, назначается хранилищем
	UserName  string    // Отображаемое имя
	Email     string    // Электронная почта (уникальная)
	CreatedAt time.Time // Момент создания, не меняется
	UpdatedAt time.Time // Момент последнего изменения
}

// UserRequest используется для приёма данных пользователя из JSON-запроса
// при создании и обновлении.
type UserRequest struct {
	UserName string `json:"user_name" validate:"required,min=2,max=50" example:"Ann"`     // Имя (2–50 символов)
	Email    string `json:"email" validate:"required,email,max=100" example:"ann@x.com"` // Email (не длиннее 100 символов)
}

// UserDTO — представление пользователя в ответах API.
type UserDTO struct {
	ID        int64     `json:"id" example:"1"`
	UserName  string    `json:"user_name" example:"Ann"`
	Email     string    `json:"email" example:"ann@x.com"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize обрезает пробелы по краям имени и email, чтобы строка
// из одних пробелов не проходила проверку required.
func (r *UserRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.TrimSpace(r.Email)
}
