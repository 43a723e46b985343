package model

import (
	"time"

	"github.com/google/uuid"
)

type StaffRole string

const (
	RoleNurse StaffRole = "nurse"
	RoleAdmin StaffRole = "admin"
)

// StaffUser is a clinical staff account. Queue and triage-detail endpoints
// are staff-only; patients never authenticate.
type StaffUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         StaffRole `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      StaffRole `json:"role"`
}
