package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Username string  `json:"username"  validate:"required,min=3,max=50"`
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password string  `json:"password"  validate:"required,min=8"`
	Role     string  `json:"role"      validate:"required,oneof=ADMIN MANAGER CASHIER"`
}

type UpdateUserRequest struct {
	FullName string  `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password string  `json:"password"  validate:"omitempty,min=8"`
	Role     string  `json:"role"      validate:"omitempty,oneof=ADMIN MANAGER CASHIER"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email,omitempty"`
	Role     string  `json:"role"`
	Active   bool    `json:"active"`
}
