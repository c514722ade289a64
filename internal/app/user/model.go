package user

import "time"

// User is the identity record the messaging core references. Accounts
// themselves (credentials, profiles) are managed elsewhere; the core only
// needs resolvable ids.
type User struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"not null;unique"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
