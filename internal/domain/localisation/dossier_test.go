package localisation

import (
	"errors"
	"testing"
	"time"

	"github.com/localisation/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDossier(t *testing.T) {
	t.Run("opens dossier in EnCours/Reference", func(t *testing.T) {
		d := createTestDossier(t)

		assert.Equal(t, StatutEnCours, d.StatutLocalisation)
		assert.Equal(t, TypeReference, d.TypeLocalisation)
		assert.Equal(t, "12 rue des Oliviers, Rabat", d.AdresseInvestiguer)
		assert.Empty(t, d.PVs)
		assert.Empty(t, d.Bordereaux)
		assert.Empty(t, d.Historique)
		assert.Equal(t, d.DateReception, d.DateMiseAJour)
	})

	t.Run("fails without CIN", func(t *testing.T) {
		d, err := NewDossier(Reserviste{}, Campagne{ID: 1}, nil, "", testNow)

		require.Error(t, err)
		assert.Nil(t, d)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("fails without campaign", func(t *testing.T) {
		d, err := NewDossier(Reserviste{CIN: "X1"}, Campagne{}, nil, "", testNow)

		require.Error(t, err)
		assert.Nil(t, d)
	})
}

func TestDossier_Apply_Table(t *testing.T) {
	tests := []struct {
		name          string
		action        Action
		wantStatut    StatutLocalisation
		wantType      TypeLocalisation
		wantPV        *PVSpec
		wantBordereau BordereauType
		wantLabel     string
		wantComment   string
	}{
		{
			name:       "confirmer-adresse",
			action:     mustAction(t, ActionConfirmerAdresse),
			wantStatut: StatutLocalise, wantType: TypeReference,
			wantLabel: "Adresse confirmée",
		},
		{
			name:       "nouvelle-adresse",
			action:     NewNouvelleAdresseAction("5 avenue Hassan II, Salé", false),
			wantStatut: StatutLocalise, wantType: TypeNouvelleAdresse,
			wantLabel: "Nouvelle adresse", wantComment: "5 avenue Hassan II, Salé",
		},
		{
			name:       "nouvelle-adresse cas particulier",
			action:     NewNouvelleAdresseAction("Douar Ouled Ali", true),
			wantStatut: StatutLocalise, wantType: TypeNouvelleAdresse,
			wantPV:    &PVSpec{Type: PVAutre, Motif: "Cas particulier"},
			wantLabel: "Cas particulier - PV obligatoire", wantComment: "Douar Ouled Ali",
		},
		{
			name:       "adresse-inconnue",
			action:     mustAction(t, ActionAdresseInconnue),
			wantStatut: StatutNonLocalise, wantType: TypeInconnue,
			wantPV:    &PVSpec{Type: PVNonLocalisation, Motif: "Adresse inconnue"},
			wantLabel: "Adresse inconnue / PV non-localisation",
		},
		{
			name:       "marquer-decede",
			action:     mustAction(t, ActionMarquerDecede),
			wantStatut: StatutLocalise, wantType: TypeDecede,
			wantPV:    &PVSpec{Type: PVDecede, Motif: "Décès signalé"},
			wantLabel: "PV Décédé",
		},
		{
			name:       "marquer-ecroue",
			action:     mustAction(t, ActionMarquerEcroue),
			wantStatut: StatutLocalise, wantType: TypeEcroue,
			wantPV:    &PVSpec{Type: PVEcroue, Motif: "Écroué"},
			wantLabel: "PV Écroué",
		},
		{
			name:       "marquer-etranger",
			action:     mustAction(t, ActionMarquerEtranger),
			wantStatut: StatutLocalise, wantType: TypeAEtranger,
			wantPV:    &PVSpec{Type: PVAEtranger, Motif: "À l'étranger"},
			wantLabel: "PV Étranger",
		},
		{
			name:       "marquer-inapte",
			action:     mustAction(t, ActionMarquerInapte),
			wantStatut: StatutLocalise, wantType: TypeInapte,
			wantPV:    &PVSpec{Type: PVInapte, Motif: "Inapte"},
			wantLabel: "PV Inapte",
		},
		{
			name:       "cas-particulier keeps status",
			action:     mustAction(t, ActionCasParticulier),
			wantStatut: StatutEnCours, wantType: TypeReference,
			wantPV:    &PVSpec{Type: PVAutre, Motif: "Cas particulier"},
			wantLabel: "Cas particulier",
		},
		{
			name:       "aucune-action keeps status",
			action:     mustAction(t, ActionAucuneAction),
			wantStatut: StatutEnCours, wantType: TypeReference,
			wantLabel: "Aucune action requise",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := createTestDossier(t)

			out, err := d.Apply(tt.action, ActionContext{Actor: "agent1", At: testNow})

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatut, d.StatutLocalisation)
			assert.Equal(t, tt.wantType, d.TypeLocalisation)
			assert.Equal(t, testNow, d.DateMiseAJour)

			if tt.wantPV == nil {
				assert.Nil(t, out.PV)
				assert.Empty(t, d.PVs)
			} else {
				require.NotNil(t, out.PV)
				require.Len(t, d.PVs, 1)
				assert.Equal(t, 1, out.PV.ID)
				assert.Equal(t, tt.wantPV.Type, out.PV.Type)
				assert.Equal(t, tt.wantPV.Motif, out.PV.Motif)
				assert.Equal(t, "PV-20240314093000-001", out.PV.Numero)
				assert.Equal(t, "/api/v1/dossiers/7/pvs/1/fichier", out.PV.FichierURL)
			}
			if tt.wantBordereau == "" {
				assert.Nil(t, out.Bordereau)
			}

			require.Len(t, d.Historique, 1)
			entry := d.Historique[0]
			assert.Equal(t, 1, entry.ID)
			assert.Equal(t, "agent1", entry.Utilisateur)
			assert.Equal(t, tt.wantLabel, entry.Action)
			assert.Equal(t, tt.wantComment, entry.Commentaire)
			assert.Equal(t, out.Entry, entry)
		})
	}
}

func TestDossier_Apply_Transfert(t *testing.T) {
	t.Run("moves dossier to destination brigade", func(t *testing.T) {
		d := createTestDossier(t)
		action, err := NewTransfertAction(3, "Hors zone de compétence")
		require.NoError(t, err)

		out, err := d.Apply(action, ActionContext{
			Actor:       "agent1",
			At:          testNow,
			Destination: &Brigade{ID: 3, Nom: "Brigade Kénitra", Zone: "Kénitra"},
		})

		require.NoError(t, err)
		assert.Equal(t, StatutTransfere, d.StatutLocalisation)
		assert.Equal(t, TypeReference, d.TypeLocalisation)
		require.NotNil(t, d.Brigade)
		assert.Equal(t, 3, d.Brigade.ID)
		require.NotNil(t, out.PV)
		assert.Equal(t, PVTransfert, out.PV.Type)
		assert.Equal(t, "Adresse hors zone", out.PV.Motif)
		require.NotNil(t, out.Bordereau)
		assert.Equal(t, BordereauTransfert, out.Bordereau.Type)
		assert.Equal(t, "BOR-20240314093000-001", out.Bordereau.Numero)
		assert.Equal(t, "Transfert vers autre brigade", d.Historique[0].Action)
		assert.Equal(t, "Hors zone de compétence", d.Historique[0].Commentaire)
	})

	t.Run("nil destination leaves dossier unassigned", func(t *testing.T) {
		d := createTestDossier(t)
		action, err := NewTransfertAction(99, "")
		require.NoError(t, err)

		_, err = d.Apply(action, ActionContext{At: testNow})

		require.NoError(t, err)
		assert.Nil(t, d.Brigade)
		assert.Equal(t, 0, d.BrigadeID())
		assert.Equal(t, SystemActor, d.Historique[0].Utilisateur)
	})
}

func TestDossier_Apply_NouvelleAdresse(t *testing.T) {
	t.Run("replaces address", func(t *testing.T) {
		d := createTestDossier(t)

		_, err := d.Apply(NewNouvelleAdresseAction("8 rue Fès, Meknès", false), ActionContext{At: testNow})

		require.NoError(t, err)
		assert.Equal(t, "8 rue Fès, Meknès", d.AdresseInvestiguer)
	})

	t.Run("blank address keeps previous one", func(t *testing.T) {
		d := createTestDossier(t)

		_, err := d.Apply(NewNouvelleAdresseAction("   ", false), ActionContext{At: testNow})

		require.NoError(t, err)
		assert.Equal(t, "12 rue des Oliviers, Rabat", d.AdresseInvestiguer)
		assert.Equal(t, TypeNouvelleAdresse, d.TypeLocalisation)
	})
}

func TestDossier_Apply_Sequences(t *testing.T) {
	d := createTestDossier(t)
	ctx := ActionContext{Actor: "agent1", At: testNow}

	for i := 0; i < 3; i++ {
		_, err := d.Apply(mustAction(t, ActionCasParticulier), ctx)
		require.NoError(t, err)
	}
	_, err := d.Apply(mustAction(t, ActionAucuneAction), ctx)
	require.NoError(t, err)

	require.Len(t, d.PVs, 3)
	for i, pv := range d.PVs {
		assert.Equal(t, i+1, pv.ID)
	}
	require.Len(t, d.Historique, 4)
	assert.Equal(t, 4, d.Historique[0].ID)
	assert.Equal(t, "Aucune action requise", d.Historique[0].Action)
	assert.Equal(t, 1, d.Historique[3].ID)
}

func TestDossier_Apply_SeedsCountersFromExistingDocuments(t *testing.T) {
	d := createTestDossier(t)
	d.PVs = []PV{{ID: 4, Type: PVAutre}}
	d.Historique = []HistoriqueAction{{ID: 9, Action: "Import"}}

	out, err := d.Apply(mustAction(t, ActionMarquerInapte), ActionContext{At: testNow})

	require.NoError(t, err)
	assert.Equal(t, 5, out.PV.ID)
	assert.Equal(t, 10, out.Entry.ID)
}

func TestDossier_Apply_NeverMovesUpdateDateBackwards(t *testing.T) {
	d := createTestDossier(t)
	d.DateMiseAJour = testNow

	_, err := d.Apply(mustAction(t, ActionAucuneAction), ActionContext{At: testNow.Add(-time.Hour)})

	require.NoError(t, err)
	assert.Equal(t, testNow, d.DateMiseAJour)
}

func TestDossier_Apply_InvalidAction(t *testing.T) {
	d := createTestDossier(t)

	_, err := d.Apply(Action{Kind: "inventer"}, ActionContext{At: testNow})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	assert.Empty(t, d.Historique)
	assert.Equal(t, StatutEnCours, d.StatutLocalisation)
}

func TestDossier_Clone(t *testing.T) {
	d := createTestDossier(t)
	_, err := d.Apply(mustAction(t, ActionAdresseInconnue), ActionContext{At: testNow})
	require.NoError(t, err)

	c := d.Clone()
	c.PVs[0].Motif = "modifié"
	c.Historique = append(c.Historique, HistoriqueAction{ID: 99})
	c.Brigade.Nom = "autre"
	_, err = c.Apply(mustAction(t, ActionCasParticulier), ActionContext{At: testNow})
	require.NoError(t, err)

	assert.Equal(t, "Adresse inconnue", d.PVs[0].Motif)
	assert.Len(t, d.Historique, 1)
	assert.Len(t, d.PVs, 1)
	assert.Equal(t, "Brigade Rabat Centre", d.Brigade.Nom)
	assert.Nil(t, (*Dossier)(nil).Clone())
}

func mustAction(t *testing.T, kind ActionKind) Action {
	t.Helper()
	a, err := NewAction(kind)
	require.NoError(t, err)
	return a
}

func TestNewDossierActionApplied(t *testing.T) {
	d := createTestDossier(t)
	action, err := NewTransfertAction(2, "")
	require.NoError(t, err)
	out, err := d.Apply(action, ActionContext{Actor: "agent1", At: testNow, Destination: &Brigade{ID: 2}})
	require.NoError(t, err)

	e := NewDossierActionApplied(d, out, testNow)

	assert.Equal(t, EventTypeActionApplied, e.EventType())
	assert.Equal(t, AggregateTypeDossier, e.AggregateType())
	assert.Equal(t, "7", e.AggregateID())
	assert.Equal(t, ActionTransfert, e.Action)
	assert.Equal(t, StatutTransfere, e.StatutLocalisation)
	assert.Equal(t, []int{1}, e.PVIDs)
	assert.Equal(t, []int{1}, e.BordereauIDs)
	assert.Equal(t, "agent1", e.Utilisateur)
}
