package models

import "time"

// User is an account with an optional profile photo. The photo location
// fields mirror Attachment and are empty when no photo was uploaded.
type User struct {
	ID           int64
	Login        string
	DisplayName  string
	PasswordHash []byte
	Salt         []byte

	StoredDirectory string
	OriginalName    string
	StorageName     string

	CreatedAt time.Time
}

// HasPhoto reports whether a profile photo is recorded for the user.
func (u *User) HasPhoto() bool {
	return u.StorageName != ""
}
