// Package models defines the row types shared by the giftwell services.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an opaque identity. The engine reads users but never mutates them;
// registration and profile management live outside this module.
type User struct {
	ID          int64     `json:"-"`
	PublicID    uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
