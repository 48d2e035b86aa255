package models

// User represents a user in the database. PlayerID is the identity used by
// game sessions and settings, shared with guest play.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PlayerID     string `db:"player_id"`
	PasswordHash string `db:"password_hash"`
}

// RegisterRequest defines the structure for a user registration request.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// LoginRequest defines the structure for a user login request.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by every auth endpoint.
type AuthResponse struct {
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}
