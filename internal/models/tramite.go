package models

import "time"

// Tramite is a municipal procedure type that can be booked.
type Tramite struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Nombre           string    `gorm:"size:150;not null" json:"nombre"`
	Descripcion      string    `gorm:"type:text" json:"descripcion"`
	Requisitos       string    `gorm:"type:text" json:"requisitos"`
	DuracionEstimada int       `gorm:"default:30" json:"duracion_estimada"` // minutes
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Tramite) TableName() string {
	return "tramites"
}
