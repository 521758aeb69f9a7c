package models

import "time"

type Documento struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservaID     uint      `gorm:"not null;index" json:"reserva_id"`
	NombreArchivo string    `gorm:"size:255;not null" json:"nombre_archivo"`
	RutaArchivo   string    `gorm:"size:255;not null;uniqueIndex" json:"ruta_archivo"`
	TipoMime      string    `gorm:"size:100;not null" json:"tipo_mime"`
	PesoMB        float64   `gorm:"column:peso_mb" json:"peso_mb"`
	SubidoEn      time.Time `gorm:"autoCreateTime;index" json:"subido_en"`
	Reserva       Reserva   `gorm:"foreignKey:ReservaID" json:"-"`
}

func (Documento) TableName() string {
	return "documentos"
}
