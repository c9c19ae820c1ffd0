package models

import (
	"time"

	"github.com/google/uuid"
)

// Recording is one user-owned video clip stored in S3.
// Owner and S3Key are set at creation and never change; Filename is the
// only mutable field.
type Recording struct {
	ID        uuid.UUID `json:"id"`
	UserUID   string    `json:"-"`
	Filename  string    `json:"filename"`
	S3Key     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
