package models

import "time"

// User is a directory record. PasswordHash is excluded from JSON so the
// digest can never cross a marshalling boundary; AuthService additionally
// clears it before handing a user to a caller.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Sanitized returns a copy with the password hash removed.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}
