package services

import "errors"

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a user-facing failure of a given kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Invalid builds an ad-hoc validation error.
func Invalid(msg string) error {
	return newError(ErrValidation, msg)
}

var (
	ErrMissingFields      = newError(ErrValidation, "Faltan datos obligatorios")
	ErrInvalidRUT         = newError(ErrValidation, "RUT inválido, formato esperado 12345678-9")
	ErrWeakPassword       = newError(ErrValidation, "La contraseña debe tener al menos 6 caracteres")
	ErrInvalidRole        = newError(ErrValidation, "Rol inválido")
	ErrRUTTaken           = newError(ErrConflict, "El RUT ya está registrado")
	ErrEmailTaken         = newError(ErrConflict, "El email ya está registrado")
	ErrInvalidCredentials = newError(ErrUnauthorized, "RUT o contraseña incorrectos")
	ErrRoleNotAllowed     = newError(ErrForbidden, "No autorizado para asignar este rol")
	ErrUserNotFound       = newError(ErrNotFound, "Usuario no encontrado")
)

var (
	ErrTramiteNotFound   = newError(ErrNotFound, "Trámite no encontrado")
	ErrTramiteInUse      = newError(ErrConflict, "El trámite tiene reservas asociadas")
	ErrReservaNotFound   = newError(ErrNotFound, "Reserva no encontrada")
	ErrSlotTaken         = newError(ErrConflict, "La hora seleccionada ya está reservada")
	ErrInvalidTransition = newError(ErrConflict, "La reserva no admite este cambio de estado")
	ErrInvalidFecha      = newError(ErrValidation, "Fecha inválida, formato esperado AAAA-MM-DD")
	ErrInvalidHora       = newError(ErrValidation, "Hora inválida, formato esperado HH:MM")
)

var (
	ErrFileRequired        = newError(ErrValidation, "Debe adjuntar un documento")
	ErrFileType            = newError(ErrValidation, "Tipo de archivo no permitido, solo PDF, JPG o PNG")
	ErrFileTooLarge        = newError(ErrValidation, "El archivo supera el tamaño máximo permitido")
	ErrDocumentoNotFound   = newError(ErrNotFound, "Archivo no encontrado")
	ErrEmptyQuestion       = newError(ErrValidation, "La pregunta es requerida")
	ErrInappropriate       = newError(ErrValidation, "La pregunta contiene lenguaje inapropiado")
	ErrInvalidDays         = newError(ErrValidation, "diasAnticipacion debe estar entre 1 y 365")
	ErrSearchTermRequired  = newError(ErrValidation, "El término de búsqueda es requerido")
	ErrFAQNotFound         = newError(ErrNotFound, "FAQ no encontrada")
	ErrSettingNotFound     = newError(ErrNotFound, "Configuración no encontrada")
	ErrNoRecipients        = newError(ErrValidation, "Datos incompletos")
	ErrInvalidNotification = newError(ErrValidation, "Tipo de notificación inválido")
)
