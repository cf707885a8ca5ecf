package localisation

import (
	"strings"

	"golang.org/x/text/cases"
)

// DossierFilter selects dossiers. Zero-valued fields are ignored and the
// remaining predicates are ANDed.
type DossierFilter struct {
	CIN        string
	Nom        string
	BrigadeID  *int
	CampagneID *int
	Statut     StatutLocalisation
	Type       TypeLocalisation
}

// Matches reports whether the dossier satisfies every supplied predicate
func (f DossierFilter) Matches(d *Dossier) bool {
	if f.CIN != "" && !containsFold(d.Reserviste.CIN, f.CIN) {
		return false
	}
	if f.Nom != "" && !containsFold(d.Reserviste.Nom, f.Nom) && !containsFold(d.Reserviste.Prenom, f.Nom) {
		return false
	}
	if f.BrigadeID != nil && (d.Brigade == nil || d.Brigade.ID != *f.BrigadeID) {
		return false
	}
	if f.CampagneID != nil && d.Campagne.ID != *f.CampagneID {
		return false
	}
	if f.Statut != "" && d.StatutLocalisation != f.Statut {
		return false
	}
	if f.Type != "" && d.TypeLocalisation != f.Type {
		return false
	}
	return true
}

// IsEmpty reports whether no predicate is set
func (f DossierFilter) IsEmpty() bool {
	return f == DossierFilter{}
}

// containsFold builds its own Caser since a Caser must not be shared between goroutines
func containsFold(s, substr string) bool {
	folder := cases.Fold()
	return strings.Contains(folder.String(s), folder.String(substr))
}
