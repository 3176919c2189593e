// Package models contains the server-side data model shared by
// repositories and services.
package models

import "time"

// User is an account stored by the credential store. Accounts created
// through the Facebook login path carry an empty PasswordHash and can
// never authenticate with a password.
type User struct {
	ID           string
	Email        string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
