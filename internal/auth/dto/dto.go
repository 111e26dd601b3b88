package dto

import (
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UserID    string     `json:"userID"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
}

type ResetPasswordInput struct {
	Email       string
	OTPCode     string
	NewPassword string
}
