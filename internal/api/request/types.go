package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
}
