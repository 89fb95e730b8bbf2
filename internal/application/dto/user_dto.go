package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateUserRequest alta de usuario por un administrador (password en texto, se hashea en el use case).
type CreateUserRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Role            string `json:"role" validate:"omitempty,oneof=admin user"`
}

// UpdateProfileRequest cambio de nombre de usuario y/o contraseña propios.
type UpdateProfileRequest struct {
	Username        string `json:"username" validate:"omitempty,min=3,max=100"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
