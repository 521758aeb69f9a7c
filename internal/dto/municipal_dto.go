package dto

import "time"

type EstadoItem struct {
	Numero string `json:"numero,omitempty"`
	Estado string `json:"estado"`
}

type LicenciaInfo struct {
	Numero           string     `json:"numero"`
	FechaVencimiento *time.Time `json:"fecha_vencimiento"`
	Estado           string     `json:"estado"`
	DiasParaVencer   *int       `json:"dias_para_vencer"`
}

type DatosMunicipalesResponse struct {
	RUT                string       `json:"rut"`
	Nombre             string       `json:"nombre"`
	Licencia           LicenciaInfo `json:"licencia"`
	Patente            EstadoItem   `json:"patente"`
	PermisoCirculacion EstadoItem   `json:"permiso_circulacion"`
	Juzgado            EstadoItem   `json:"juzgado"`
	Aseo               EstadoItem   `json:"aseo"`
}

type GenerarDatosRequest struct {
	RUT    string `json:"rut"`
	Nombre string `json:"nombre"`
}
