package localisation

import (
	"strings"
	"time"

	"github.com/localisation/backend/internal/domain/shared"
)

// Reserviste is the person a dossier tracks. Keyed by national id (CIN).
type Reserviste struct {
	CIN                string
	Nom                string
	Prenom             string
	DateNaissance      time.Time
	AdresseReference   string
	StatutMobilisation string
}

// Brigade is a field unit responsible for investigating dossiers
type Brigade struct {
	ID   int
	Nom  string
	Zone string
}

// CampagneStatut is the lifecycle label of a recall campaign
type CampagneStatut string

const (
	CampagnePlanifiee CampagneStatut = "Planifiee"
	CampagneEnCours   CampagneStatut = "EnCours"
	CampagneTerminee  CampagneStatut = "Terminee"
)

// IsValid checks if the status is a valid CampagneStatut
func (s CampagneStatut) IsValid() bool {
	switch s {
	case CampagnePlanifiee, CampagneEnCours, CampagneTerminee:
		return true
	}
	return false
}

// Campagne is a recall campaign grouping dossiers
type Campagne struct {
	ID        int
	Nom       string
	DateDebut time.Time
	DateFin   time.Time
	Statut    CampagneStatut
}

// NewCampagne creates a campaign. The id is assigned by the catalog on save.
func NewCampagne(nom string, dateDebut, dateFin time.Time, statut CampagneStatut) (*Campagne, error) {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return nil, shared.NewValidationError("Campaign name cannot be empty")
	}
	if statut == "" {
		statut = CampagneEnCours
	}
	if !statut.IsValid() {
		return nil, shared.NewValidationError("Unknown campaign status " + string(statut))
	}
	if !dateFin.IsZero() && dateFin.Before(dateDebut) {
		return nil, shared.NewValidationError("Campaign end date cannot precede its start date")
	}
	return &Campagne{
		Nom:       nom,
		DateDebut: dateDebut,
		DateFin:   dateFin,
		Statut:    statut,
	}, nil
}
