package localisation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func createTestDossier(t *testing.T) *Dossier {
	t.Helper()
	d, err := NewDossier(
		Reserviste{CIN: "AB123456", Nom: "El Amrani", Prenom: "Youssef", AdresseReference: "12 rue des Oliviers, Rabat"},
		Campagne{ID: 1, Nom: "Rappel 2024", Statut: CampagneEnCours},
		&Brigade{ID: 1, Nom: "Brigade Rabat Centre", Zone: "Rabat"},
		"",
		testNow.Add(-24*time.Hour),
	)
	require.NoError(t, err)
	d.ID = 7
	return d
}
