package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"uid"`
	Username     string    `gorm:"not null"                 json:"username"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	IsVerified   bool      `gorm:"default:false"            json:"is_verified"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Book lives only in process memory, there is no table for it.
type Book struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
}
