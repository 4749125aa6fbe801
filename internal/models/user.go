package models

import "time"

type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRecord is the on-disk shape; the password hash is persisted but
// never serialized in API responses.
type UserRecord struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// ToRecord converts a user to its persisted form.
func (u User) ToRecord() UserRecord {
	return UserRecord{User: u, PasswordHash: u.PasswordHash}
}

// ToUser restores the in-memory form from a persisted record.
func (r UserRecord) ToUser() User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	return u
}
