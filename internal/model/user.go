// Package model defines the data structures used throughout the application.
//
// Models are storage-agnostic: IDs are plain strings, and each store decides
// how to encode them (ObjectID hex for MongoDB, xid for SQLite). The JSON tags
// keep the wire names the web client already depends on (`_id`, `date`, ...).
package model

import "time"

// User represents a registered account.
//
// Password holds the bcrypt hash, never the plaintext. The `json:"-"` tag
// keeps it out of every response, including GET /api/auth.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}
