package dto

// RoleRequestDTO is used to pick a role after sign-up
type RoleRequestDTO struct {
	Role string `json:"role" validate:"required,oneof=student educator"`
}

// RoleResponseDTO is the caller's role
type RoleResponseDTO struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
