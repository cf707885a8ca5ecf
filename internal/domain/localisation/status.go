package localisation

import (
	"fmt"

	"github.com/localisation/backend/internal/domain/shared"
)

// StatutLocalisation is the coarse lifecycle state of a dossier
type StatutLocalisation string

const (
	StatutEnCours     StatutLocalisation = "EnCours"
	StatutLocalise    StatutLocalisation = "Localise"
	StatutNonLocalise StatutLocalisation = "NonLocalise"
	StatutTransfere   StatutLocalisation = "Transfere"
)

// IsValid checks if the status is a valid StatutLocalisation
func (s StatutLocalisation) IsValid() bool {
	switch s {
	case StatutEnCours, StatutLocalise, StatutNonLocalise, StatutTransfere:
		return true
	}
	return false
}

// String returns the string representation of StatutLocalisation
func (s StatutLocalisation) String() string {
	return string(s)
}

// ParseStatutLocalisation converts a raw value into a StatutLocalisation
func ParseStatutLocalisation(value string) (StatutLocalisation, error) {
	s := StatutLocalisation(value)
	if !s.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("Unknown statutLocalisation %q", value))
	}
	return s, nil
}

// TypeLocalisation classifies the reason behind the current status
type TypeLocalisation string

const (
	TypeReference       TypeLocalisation = "Reference"
	TypeNouvelleAdresse TypeLocalisation = "NouvelleAdresse"
	TypeInconnue        TypeLocalisation = "Inconnue"
	TypeDecede          TypeLocalisation = "Decede"
	TypeEcroue          TypeLocalisation = "Ecroue"
	TypeAEtranger       TypeLocalisation = "A_Etranger"
	TypeInapte          TypeLocalisation = "Inapte"
)

// IsValid checks if the type is a valid TypeLocalisation
func (t TypeLocalisation) IsValid() bool {
	switch t {
	case TypeReference, TypeNouvelleAdresse, TypeInconnue, TypeDecede, TypeEcroue, TypeAEtranger, TypeInapte:
		return true
	}
	return false
}

// String returns the string representation of TypeLocalisation
func (t TypeLocalisation) String() string {
	return string(t)
}

// ParseTypeLocalisation converts a raw value into a TypeLocalisation
func ParseTypeLocalisation(value string) (TypeLocalisation, error) {
	t := TypeLocalisation(value)
	if !t.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("Unknown typeLocalisation %q", value))
	}
	return t, nil
}
