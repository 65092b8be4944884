package domain

import "time"

// Post is a short text post authored by a user. Name and Avatar are a
// snapshot of the author taken at creation time.
type Post struct {
	ID        int64
	UserID    int64
	Text      string
	Name      string
	Avatar    string
	CreatedAt time.Time
}
