package dto

import (
	"time"

	"github.com/yukikurage/daily-planner-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	LoginKey string `json:"loginKey"`
	Name     string `json:"name"`
}

// AuthResponse is returned by register and login. ExpiresIn is in seconds.
type AuthResponse struct {
	Token     string  `json:"token"`
	ExpiresIn int64   `json:"expiresIn"`
	User      UserDTO `json:"user"`
}

// CountResponse represents an item count
type CountResponse struct {
	Count int64 `json:"count"`
}

// HealthResponse represents the liveness probe body
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"dbConnected"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		LoginKey: user.LoginKey,
		Name:     user.Name,
	}
}

// ToAuthResponse converts an issued token and its user to AuthResponse
func ToAuthResponse(token string, expiresIn time.Duration, user models.User) AuthResponse {
	return AuthResponse{
		Token:     token,
		ExpiresIn: int64(expiresIn / time.Second),
		User:      ToUserDTO(user),
	}
}
