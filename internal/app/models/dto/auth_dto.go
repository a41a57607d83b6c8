package dto

// LoginRequest represents login credentials. Presence is checked by the
// auth service so the client gets its exact message.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterRequest represents an administrator registration
type RegisterRequest struct {
	Username        string `json:"username" form:"username"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
}
