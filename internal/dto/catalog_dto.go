package dto

type TramiteRequest struct {
	Nombre           string `json:"nombre"`
	Descripcion      string `json:"descripcion"`
	Requisitos       string `json:"requisitos"`
	DuracionEstimada int    `json:"duracion_estimada"`
}

type SettingRequest struct {
	Value string `json:"value"`
	Type  string `json:"type"` // string, bool, int, json
}

type Destinatario struct {
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

type NotificacionRequest struct {
	Tipo          string         `json:"tipo"`
	Mensaje       string         `json:"mensaje"`
	Destinatarios []Destinatario `json:"destinatarios"`
}

type NotificacionResponse struct {
	Message  string `json:"message"`
	Enviados int    `json:"enviados"`
}
