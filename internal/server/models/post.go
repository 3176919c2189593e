package models

import "time"

// Post is a user-owned resource managed by the posts service.
type Post struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}
