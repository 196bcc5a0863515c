package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID         int64
	TelegramID int64
	Role       Role
	CreatedAt  time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
