package models

import (
	"time"
)

const (
	RoleCiudadano   = "ciudadano"
	RoleFuncionario = "funcionario"
	RoleAdmin       = "admin"
)

// ValidRoles lists every assignable role.
var ValidRoles = map[string]bool{
	RoleCiudadano: true, RoleFuncionario: true, RoleAdmin: true,
}

// StaffRoles may review and report on bookings.
var StaffRoles = []string{RoleFuncionario, RoleAdmin}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RUT          string    `gorm:"column:rut;size:12;not null;uniqueIndex" json:"rut"`
	Nombre       string    `gorm:"size:100;not null" json:"nombre"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'ciudadano'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "usuarios"
}

// IsStaffRole reports whether role can act on other citizens' bookings.
func IsStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}
