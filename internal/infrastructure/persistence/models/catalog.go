package models

import (
	"time"

	"github.com/localisation/backend/internal/domain/localisation"
)

// ReservisteModel is the persistence model for a reservist, keyed by CIN
type ReservisteModel struct {
	CIN                string     `gorm:"column:cin;type:varchar(20);primaryKey"`
	Nom                string     `gorm:"type:varchar(100);not null;index"`
	Prenom             string     `gorm:"type:varchar(100);not null"`
	DateNaissance      *time.Time `gorm:"type:date"`
	AdresseReference   string     `gorm:"type:varchar(300)"`
	StatutMobilisation string     `gorm:"type:varchar(30)"`
	CreatedAt          time.Time  `gorm:"not null"`
	UpdatedAt          time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReservisteModel) TableName() string {
	return "reservistes"
}

// ToDomain converts the persistence model to a domain Reserviste
func (m *ReservisteModel) ToDomain() localisation.Reserviste {
	r := localisation.Reserviste{
		CIN:                m.CIN,
		Nom:                m.Nom,
		Prenom:             m.Prenom,
		AdresseReference:   m.AdresseReference,
		StatutMobilisation: m.StatutMobilisation,
	}
	if m.DateNaissance != nil {
		r.DateNaissance = m.DateNaissance.UTC()
	}
	return r
}

// FromDomain populates the persistence model from a domain Reserviste
func (m *ReservisteModel) FromDomain(r localisation.Reserviste) {
	m.CIN = r.CIN
	m.Nom = r.Nom
	m.Prenom = r.Prenom
	m.DateNaissance = nullableTime(r.DateNaissance)
	m.AdresseReference = r.AdresseReference
	m.StatutMobilisation = r.StatutMobilisation
}

// BrigadeModel is the persistence model for a brigade
type BrigadeModel struct {
	BaseModel
	Nom  string `gorm:"type:varchar(100);not null"`
	Zone string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (BrigadeModel) TableName() string {
	return "brigades"
}

// ToDomain converts the persistence model to a domain Brigade
func (m *BrigadeModel) ToDomain() localisation.Brigade {
	return localisation.Brigade{ID: m.ID, Nom: m.Nom, Zone: m.Zone}
}

// FromDomain populates the persistence model from a domain Brigade
func (m *BrigadeModel) FromDomain(b localisation.Brigade) {
	m.ID = b.ID
	m.Nom = b.Nom
	m.Zone = b.Zone
}

// CampagneModel is the persistence model for a recall campaign
type CampagneModel struct {
	BaseModel
	Nom       string                      `gorm:"type:varchar(200);not null"`
	DateDebut *time.Time                  `gorm:"type:date"`
	DateFin   *time.Time                  `gorm:"type:date"`
	Statut    localisation.CampagneStatut `gorm:"type:varchar(20);not null;default:'EnCours'"`
}

// TableName returns the table name for GORM
func (CampagneModel) TableName() string {
	return "campagnes"
}

// ToDomain converts the persistence model to a domain Campagne
func (m *CampagneModel) ToDomain() localisation.Campagne {
	c := localisation.Campagne{ID: m.ID, Nom: m.Nom, Statut: m.Statut}
	if m.DateDebut != nil {
		c.DateDebut = m.DateDebut.UTC()
	}
	if m.DateFin != nil {
		c.DateFin = m.DateFin.UTC()
	}
	return c
}

// FromDomain populates the persistence model from a domain Campagne
func (m *CampagneModel) FromDomain(c localisation.Campagne) {
	m.ID = c.ID
	m.Nom = c.Nom
	m.DateDebut = nullableTime(c.DateDebut)
	m.DateFin = nullableTime(c.DateFin)
	m.Statut = c.Statut
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
