package dto

import "github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"

type CreateReservaRequest struct {
	TramiteID     uint   `json:"tramite_id"`
	Fecha         string `json:"fecha"`
	Hora          string `json:"hora"`
	Observaciones string `json:"observaciones"`
}

type RejectReservaRequest struct {
	Motivo string `json:"motivo"`
}

type ReservaResponse struct {
	Message string          `json:"msg"`
	Reserva *models.Reserva `json:"reserva"`
}

type DisponibilidadResponse struct {
	Fecha    string   `json:"fecha"`
	Ocupadas []string `json:"ocupadas"`
}
