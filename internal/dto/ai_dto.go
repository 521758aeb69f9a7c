package dto

import "time"

type ChatRequest struct {
	Pregunta string `json:"pregunta"`
}

type ChatResponse struct {
	Pregunta  string    `json:"pregunta"`
	Respuesta string    `json:"respuesta"`
	Modelo    string    `json:"modelo"`
	Tipo      string    `json:"tipo"`
	Timestamp time.Time `json:"timestamp"`
}

type VencimientosRequest struct {
	DiasAnticipacion *int `json:"diasAnticipacion"`
}

type Vencimiento struct {
	UsuarioID        *uint     `json:"usuarioId,omitempty"`
	RUT              string    `json:"rut"`
	Nombre           string    `json:"nombre"`
	Email            string    `json:"email,omitempty"`
	NumeroLicencia   string    `json:"numeroLicencia"`
	FechaVencimiento time.Time `json:"fechaVencimiento"`
	DiasRestantes    int       `json:"diasRestantes"`
	Recordatorio     string    `json:"recordatorio"`
}

type VencimientosResponse struct {
	DiasAnticipacion int           `json:"diasAnticipacion"`
	Total            int           `json:"total"`
	Vencimientos     []Vencimiento `json:"vencimientos"`
}
