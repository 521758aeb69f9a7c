package models

import "time"

const (
	EstadoPendiente  = "pendiente"
	EstadoConfirmada = "confirmada"
	EstadoAnulada    = "anulada"
)

// Reserva is an appointment for a tramite. The partial unique index keeps a
// single live booking per (fecha, hora); anuladas release the slot.
type Reserva struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UsuarioID     uint      `gorm:"not null;index" json:"usuario_id"`
	TramiteID     uint      `gorm:"not null;index" json:"tramite_id"`
	Fecha         string    `gorm:"size:10;not null;uniqueIndex:idx_reservas_slot,where:estado <> 'anulada'" json:"fecha"` // YYYY-MM-DD
	Hora          string    `gorm:"size:5;not null;uniqueIndex:idx_reservas_slot" json:"hora"`                             // HH:MM
	Estado        string    `gorm:"size:20;not null;default:'pendiente';index" json:"estado"`
	Observaciones string    `gorm:"type:text" json:"observaciones"`
	MotivoRechazo string    `gorm:"size:500" json:"motivo_rechazo,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Usuario       User      `gorm:"foreignKey:UsuarioID" json:"-"`
	Tramite       Tramite   `gorm:"foreignKey:TramiteID" json:"-"`
}

func (Reserva) TableName() string {
	return "reservas"
}

// ReservaDetalle is the joined row returned by booking listings.
type ReservaDetalle struct {
	ID            uint   `json:"id"`
	UsuarioID     uint   `json:"usuario_id"`
	Usuario       string `json:"usuario,omitempty"`
	RUT           string `gorm:"column:rut" json:"rut,omitempty"`
	Email         string `json:"email,omitempty"`
	TramiteID     uint   `json:"tramite_id"`
	Tramite       string `json:"tramite"`
	Fecha         string `json:"fecha"`
	Hora          string `json:"hora"`
	Estado        string `json:"estado"`
	Observaciones string `json:"observaciones"`
	MotivoRechazo string `json:"motivo_rechazo,omitempty"`
}
