package domain

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	Country      string    `json:"country"`
	Bio          string    `json:"bio"`
	Interests    []string  `json:"interests"`
	Photos       []string  `json:"photos"`
	MainPhoto    string    `json:"main_photo,omitempty"`
	Instagram    *string   `json:"instagram,omitempty"`
	Discord      *string   `json:"discord,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
