package models

import "time"

// User is the system-of-record identity. CredentialHash is never serialized
// into responses.
type User struct {
	ID                  int64     `db:"id" json:"id"`
	Username            string    `db:"username" json:"username"`
	DisplayName         string    `db:"display_name" json:"display_name"`
	Mail                string    `db:"mail" json:"mail"`
	CredentialHash      string    `db:"credential_hash" json:"-"`
	CredentialUpdatedAt time.Time `db:"credential_updated_at" json:"-"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}
