package models

import "time"

const RoleAdmin = "admin"

// Principal is an authenticated administrator.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     Principal `json:"admin"`
}

// SessionResponse is returned by logout and verify.
type SessionResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Admin   *Principal `json:"admin,omitempty"`
}
