package model

import "time"

// User is a resident or administrator account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Email          string    `db:"email" json:"email"`
	PhoneNo        *string   `db:"phone_no" json:"phone_no"`
	Address        *string   `db:"address" json:"address"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           string    `db:"role" json:"role"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	TelegramChatID *string   `db:"telegram_chat_id" json:"telegram_chat_id"`
	TelegramLinked bool      `db:"telegram_linked" json:"telegram_linked"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type RegisterRequest struct {
	FullName string  `json:"full_name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	PhoneNo  *string `json:"phone_no" binding:"omitempty,max=20"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	Password string  `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UpdateProfileRequest struct {
	Email   string  `json:"email" binding:"required,email,max=255"`
	PhoneNo string  `json:"phone_no" binding:"required,max=20"`
	Address *string `json:"address" binding:"omitempty,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" binding:"required"`
	NewPassword             string `json:"new_password" binding:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" binding:"required,eqfield=NewPassword"`
}

type LinkTelegramRequest struct {
	ChatID string `json:"chat_id" binding:"omitempty,max=64"`
	Linked bool   `json:"linked"`
}

// UserStats are the dashboard counters of one resident.
type UserStats struct {
	ActiveReports  int `json:"active_reports"`
	AidRequests    int `json:"aid_requests"`
	ActivePrograms int `json:"active_programs"`
}
