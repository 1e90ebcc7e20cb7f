package entity

import (
	"strings"
	"time"
)

// Company representa una organización cliente del portal (NIT colombiano).
type Company struct {
	ID        string
	Name      string // razón social
	TaxID     string // NIT, con o sin dígito de verificación
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact persona de contacto de un proyecto. Su email es lo que habilita
// la visibilidad del proyecto para usuarios sin acceso global.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Project sede/obra de una empresa. Pertenece a una sola Company durante toda su vida.
type Project struct {
	ID          string
	CompanyID   string
	Site        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	Active      bool
	Status      string
	Contacts    []Contact
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasContact informa si el email figura entre los contactos (sin distinguir mayúsculas).
func (p *Project) HasContact(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, c := range p.Contacts {
		if strings.EqualFold(strings.TrimSpace(c.Email), email) {
			return true
		}
	}
	return false
}

// DocumentCategory categoría normativa compartida por todas las empresas.
type DocumentCategory struct {
	ID                 string
	Name               string
	NormativeReference string // ej. "Decreto 1072 de 2015"
	Type               Kind
	Required           bool
	RenewalMonths      int // 0 = sin renovación periódica
	Active             bool
	CreatedAt          time.Time
}
