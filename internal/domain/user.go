package domain

import "time"

// User represents a registered member of the network.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
}

// UserSummary is the slice of a user embedded in profile projections.
type UserSummary struct {
	ID     int64
	Name   string
	Avatar string
}
