package models

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// IaConversacion is one assistant exchange. Rows are append-only.
type IaConversacion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UsuarioID uint      `gorm:"not null;index" json:"usuario_id"`
	Pregunta  string    `gorm:"type:text;not null" json:"pregunta"`
	Respuesta string    `gorm:"type:text;not null" json:"respuesta"`
	Modelo    string    `gorm:"size:50" json:"modelo"`
	CreadoEn  time.Time `gorm:"autoCreateTime;index" json:"creado_en"`
}

func (IaConversacion) TableName() string {
	return "ia_conversaciones"
}

type IaFaq struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Pregunta      string   `gorm:"type:text;not null" json:"pregunta"`
	Respuesta     string   `gorm:"type:text;not null" json:"respuesta"`
	Categoria     string   `gorm:"size:50;index" json:"categoria"`
	PalabrasClave Keywords `json:"palabras_clave"`
	Activa        bool     `gorm:"default:true" json:"-"`
}

func (IaFaq) TableName() string {
	return "ia_faqs"
}

// Keywords is a text[] column on Postgres. Other dialects store the array
// literal as plain text.
type Keywords pq.StringArray

func (Keywords) GormDataType() string {
	return "text"
}

func (Keywords) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (k Keywords) Value() (driver.Value, error) {
	return pq.StringArray(k).Value()
}

func (k *Keywords) Scan(src interface{}) error {
	return (*pq.StringArray)(k).Scan(src)
}
