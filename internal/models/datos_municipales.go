package models

import "time"

const (
	EstadoAlDia        = "al_dia"
	EstadoConDeuda     = "con_deuda"
	LicenciaSuspendida = "suspendida"
)

// DatosMunicipales is the per-citizen municipal status sheet keyed by rut.
type DatosMunicipales struct {
	ID                       uint       `gorm:"primaryKey" json:"id"`
	RUT                      string     `gorm:"column:rut;size:12;not null;uniqueIndex" json:"rut"`
	Nombre                   string     `gorm:"size:100" json:"nombre"`
	LicenciaNumero           string     `gorm:"size:50" json:"licencia_numero"`
	LicenciaFechaVencimiento *time.Time `json:"licencia_fecha_vencimiento"`
	LicenciaEstado           string     `gorm:"size:50;index" json:"licencia_estado"`
	PatenteNumero            string     `gorm:"size:50" json:"patente_numero"`
	PatenteEstado            string     `gorm:"size:50" json:"patente_estado"`
	PermisoEstado            string     `gorm:"size:50" json:"permiso_estado"`
	JuzgadoEstado            string     `gorm:"size:50" json:"juzgado_estado"`
	AseoEstado               string     `gorm:"size:50" json:"aseo_estado"`
	CreadoEn                 time.Time  `gorm:"autoCreateTime" json:"creado_en"`
}

func (DatosMunicipales) TableName() string {
	return "datos_municipales"
}

// LicenciaActiva reports whether reminders apply to this licence.
func (d *DatosMunicipales) LicenciaActiva() bool {
	return d.LicenciaEstado != LicenciaSuspendida && d.LicenciaFechaVencimiento != nil
}
