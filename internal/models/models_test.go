package models

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

func TestSchemasParse(t *testing.T) {
	for _, m := range []interface{}{
		&User{}, &Tramite{}, &Reserva{}, &Documento{}, &DatosMunicipales{},
		&IaConversacion{}, &IaFaq{}, &Setting{}, &Session{}, &SystemLog{},
	} {
		if _, err := schema.Parse(m, &sync.Map{}, schema.NamingStrategy{}); err != nil {
			t.Errorf("parse %T: %v", m, err)
		}
	}
}

func TestKeywordsRoundTrip(t *testing.T) {
	in := Keywords{"horario", "atención"}
	v, err := in.Value()
	if err != nil {
		t.Fatal(err)
	}
	var out Keywords
	if err := out.Scan(v); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[1] != "atención" {
		t.Errorf("unexpected keywords %v", out)
	}
}

func TestIsStaffRole(t *testing.T) {
	cases := map[string]bool{
		RoleCiudadano:   false,
		RoleFuncionario: true,
		RoleAdmin:       true,
		"":              false,
	}
	for role, want := range cases {
		if got := IsStaffRole(role); got != want {
			t.Errorf("IsStaffRole(%q) = %v, want %v", role, got, want)
		}
	}
}
