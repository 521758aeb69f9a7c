package dto

type RegisterRequest struct {
	RUT      string `json:"rut"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	RUT      string `json:"rut"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string       `json:"msg"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type UserResponse struct {
	ID     uint   `json:"id"`
	RUT    string `json:"rut"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
