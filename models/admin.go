package models

import "time"

// Admin roles.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleStaff      = "STAFF"
)

type Admin struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Permissions  *string   `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminInput struct {
	Email    string  `json:"email" binding:"required,email"`
	Name     *string `json:"name"`
	Password string  `json:"password" binding:"required"`
	Role     string  `json:"role" binding:"omitempty,oneof=SUPER_ADMIN ADMIN STAFF"`
}

// AdminUpdateInput is the partial update form; empty fields keep the
// current value.
type AdminUpdateInput struct {
	Email    string  `json:"email" binding:"omitempty,email"`
	Name     *string `json:"name"`
	Password string  `json:"password"`
	Role     string  `json:"role" binding:"omitempty,oneof=SUPER_ADMIN ADMIN STAFF"`
}

// Setting is one row of the admin key/value configuration store. It backs
// SMTP, Facebook and OpenAI configuration.
type Setting struct {
	ID        int       `json:"id"`
	Key       string    `json:"key"`
	Value     *string   `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type SettingInput struct {
	Key   string  `json:"key" binding:"required"`
	Value *string `json:"value"`
}

type RefreshToken struct {
	ID        int
	AdminID   int
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
