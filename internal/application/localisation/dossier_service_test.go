package localisation

import (
	"context"
	"errors"
	"testing"

	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDossierService_GetByID(t *testing.T) {
	svc, _ := newTestDossierService(t, DossierServiceConfig{})
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "A123456", resp.Reserviste.CIN)
		assert.Equal(t, "EnCours", resp.StatutLocalisation)
		assert.Equal(t, "12 Rue Atlas, Rabat", resp.AdresseInvestiguer)
		require.NotNil(t, resp.Brigade)
		assert.Equal(t, 1, resp.Brigade.ID)
		assert.NotNil(t, resp.PVs)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 404)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestDossierService_List(t *testing.T) {
	svc, _ := newTestDossierService(t, DossierServiceConfig{})
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  ListDossiersFilter
		wantIDs []int
	}{
		{"no filter keeps insertion order", ListDossiersFilter{}, []int{1, 2}},
		{"cin substring ignores case", ListDossiersFilter{CIN: "b654"}, []int{2}},
		{"nom matches surname", ListDossiersFilter{Nom: "mansouri"}, []int{1}},
		{"nom matches given name", ListDossiersFilter{Nom: "SALMA"}, []int{2}},
		{"brigade", ListDossiersFilter{BrigadeID: intPtr(2)}, []int{2}},
		{"campagne", ListDossiersFilter{CampagneID: intPtr(1)}, []int{1}},
		{"statut", ListDossiersFilter{StatutLocalisation: "EnCours"}, []int{1, 2}},
		{"filters are ANDed", ListDossiersFilter{CIN: "A1", BrigadeID: intPtr(2)}, []int{}},
		{"type without match", ListDossiersFilter{TypeLocalisation: "Decede"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]int, 0, len(result.Items))
			for _, d := range result.Items {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), result.Total)
		})
	}

	t.Run("unknown enum value", func(t *testing.T) {
		_, err := svc.List(ctx, ListDossiersFilter{StatutLocalisation: "Perdu"})
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = svc.List(ctx, ListDossiersFilter{TypeLocalisation: "Parti"})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestDossierService_ApplyAction(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		action        string
		payload       ActionPayload
		wantStatut    string
		wantType      string
		wantPVType    string
		wantBordereau bool
		wantLabel     string
		wantComment   string
	}{
		{"confirmer-adresse", "confirmer-adresse", ActionPayload{}, "Localise", "Reference", "", false, "Adresse confirmée", ""},
		{"nouvelle-adresse", "nouvelle-adresse", ActionPayload{Adresse: "7 Bd Zerktouni, Casablanca"}, "Localise", "NouvelleAdresse", "", false, "Nouvelle adresse", "7 Bd Zerktouni, Casablanca"},
		{"nouvelle-adresse cas particulier", "nouvelle-adresse", ActionPayload{Adresse: "Douar X", CasParticulier: true}, "Localise", "NouvelleAdresse", "Autre", false, "Cas particulier - PV obligatoire", "Douar X"},
		{"adresse-inconnue", "adresse-inconnue", ActionPayload{}, "NonLocalise", "Inconnue", "NonLocalisation", false, "Adresse inconnue / PV non-localisation", ""},
		{"transfert", "transfert", ActionPayload{BrigadeID: 2, Commentaire: "Hors zone"}, "Transfere", "Reference", "Transfert", true, "Transfert vers autre brigade", "Hors zone"},
		{"marquer-decede", "marquer-decede", ActionPayload{}, "Localise", "Decede", "Decede", false, "PV Décédé", ""},
		{"marquer-ecroue", "marquer-ecroue", ActionPayload{}, "Localise", "Ecroue", "Ecroue", false, "PV Écroué", ""},
		{"marquer-etranger", "marquer-etranger", ActionPayload{}, "Localise", "A_Etranger", "A_Etranger", false, "PV Étranger", ""},
		{"marquer-inapte", "marquer-inapte", ActionPayload{}, "Localise", "Inapte", "Inapte", false, "PV Inapte", ""},
		{"cas-particulier", "cas-particulier", ActionPayload{}, "EnCours", "Reference", "Autre", false, "Cas particulier", ""},
		{"aucune-action", "aucune-action", ActionPayload{}, "EnCours", "Reference", "", false, "Aucune action requise", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestDossierService(t, DossierServiceConfig{})

			resp, err := svc.ApplyAction(ctx, ApplyActionInput{
				DossierID: 1,
				Action:    tt.action,
				Payload:   tt.payload,
				Actor:     "brigade.nord",
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatut, resp.StatutLocalisation)
			assert.Equal(t, tt.wantType, resp.TypeLocalisation)
			assert.Equal(t, testNow, resp.DateMiseAJour)
			if tt.wantPVType == "" {
				assert.Empty(t, resp.PVs)
			} else {
				require.Len(t, resp.PVs, 1)
				assert.Equal(t, tt.wantPVType, resp.PVs[0].Type)
				assert.Equal(t, 1, resp.PVs[0].ID)
				assert.Equal(t, "/api/v1/dossiers/1/pvs/1/fichier", resp.PVs[0].FichierURL)
			}
			if tt.wantBordereau {
				require.Len(t, resp.Bordereaux, 1)
				assert.Equal(t, "Transfert", resp.Bordereaux[0].Type)
			} else {
				assert.Empty(t, resp.Bordereaux)
			}
			require.Len(t, resp.Historique, 1)
			assert.Equal(t, tt.wantLabel, resp.Historique[0].Action)
			assert.Equal(t, tt.wantComment, resp.Historique[0].Commentaire)
			assert.Equal(t, "brigade.nord", resp.Historique[0].Utilisateur)
		})
	}
}

func TestDossierService_ApplyAction_Transfert(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the dossier to the destination brigade", func(t *testing.T) {
		svc, _ := newTestDossierService(t, DossierServiceConfig{})
		resp, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "transfert", Payload: ActionPayload{BrigadeID: 2}})
		require.NoError(t, err)
		require.NotNil(t, resp.Brigade)
		assert.Equal(t, "Brigade Sud", resp.Brigade.Nom)
	})

	t.Run("unknown brigade is NOT_FOUND without side effects", func(t *testing.T) {
		svc, store := newTestDossierService(t, DossierServiceConfig{})
		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "transfert", Payload: ActionPayload{BrigadeID: 99}})
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		d, err := store.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, localisation.StatutEnCours, d.StatutLocalisation)
		assert.Empty(t, d.Historique)
		assert.Equal(t, 1, d.BrigadeID())
	})

	t.Run("unknown brigade leaves dossier unassigned when allowed", func(t *testing.T) {
		svc, _ := newTestDossierService(t, DossierServiceConfig{AllowUnassignedTransfer: true})
		resp, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "transfert", Payload: ActionPayload{BrigadeID: 99}})
		require.NoError(t, err)
		assert.Nil(t, resp.Brigade)
		assert.Equal(t, "Transfere", resp.StatutLocalisation)
	})

	t.Run("missing brigade id", func(t *testing.T) {
		svc, _ := newTestDossierService(t, DossierServiceConfig{})
		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "transfert"})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("missing brigade id leaves dossier unassigned when allowed", func(t *testing.T) {
		svc, _ := newTestDossierService(t, DossierServiceConfig{AllowUnassignedTransfer: true})
		resp, err := svc.ApplyAction(ctx, ApplyActionInput{
			DossierID: 1,
			Action:    "transfert",
			Payload:   ActionPayload{Commentaire: "hors zone"},
		})
		require.NoError(t, err)
		assert.Nil(t, resp.Brigade)
		assert.Equal(t, "Transfere", resp.StatutLocalisation)
		require.Len(t, resp.PVs, 1)
		require.Len(t, resp.Bordereaux, 1)
		assert.Equal(t, "hors zone", resp.Historique[0].Commentaire)
	})

	t.Run("negative brigade id is rejected even when unassigned is allowed", func(t *testing.T) {
		svc, _ := newTestDossierService(t, DossierServiceConfig{AllowUnassignedTransfer: true})
		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "transfert", Payload: ActionPayload{BrigadeID: -1}})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestDossierService_ApplyAction_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown action", func(t *testing.T) {
		svc, _ := newTestDossierService(t, DossierServiceConfig{})
		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "supprimer"})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("unknown dossier", func(t *testing.T) {
		svc, store := newTestDossierService(t, DossierServiceConfig{})
		before, err := store.FindAll(ctx)
		require.NoError(t, err)

		for _, action := range localisation.ActionKinds() {
			_, err := svc.ApplyAction(ctx, ApplyActionInput{
				DossierID: 404,
				Action:    action.String(),
				Payload:   ActionPayload{Adresse: "12 Rue X", BrigadeID: 2},
			})
			assert.True(t, errors.Is(err, shared.ErrNotFound), action)
		}

		after, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())
		assert.Equal(t, before, after)
		for _, d := range after {
			assert.Empty(t, d.PVs)
			assert.Empty(t, d.Bordereaux)
			assert.Empty(t, d.Historique)
		}
	})
}

func TestDossierService_ApplyAction_NotIdempotentWithoutKey(t *testing.T) {
	svc, _ := newTestDossierService(t, DossierServiceConfig{})
	ctx := context.Background()

	for range 2 {
		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 2, Action: "adresse-inconnue"})
		require.NoError(t, err)
	}
	resp, err := svc.GetByID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, resp.PVs, 2)
	assert.Equal(t, 2, resp.PVs[1].ID)
	require.Len(t, resp.Historique, 2)
	assert.Equal(t, 2, resp.Historique[0].ID)
}

func TestDossierService_ApplyAction_DefaultActor(t *testing.T) {
	ctx := context.Background()

	t.Run("system actor", func(t *testing.T) {
		svc, _ := newTestDossierService(t, DossierServiceConfig{})
		resp, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "aucune-action"})
		require.NoError(t, err)
		assert.Equal(t, localisation.SystemActor, resp.Historique[0].Utilisateur)
	})

	t.Run("configured actor", func(t *testing.T) {
		svc, _ := newTestDossierService(t, DossierServiceConfig{DefaultActor: "mock.user"})
		resp, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "aucune-action"})
		require.NoError(t, err)
		assert.Equal(t, "mock.user", resp.Historique[0].Utilisateur)
	})
}

func TestDossierService_ApplyAction_IdempotencyKey(t *testing.T) {
	ctx := context.Background()

	t.Run("first use applies the action", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, "dossier:1:marquer-inapte:abc", mock.Anything).Return(true, nil)
		svc, _ := newTestDossierService(t, DossierServiceConfig{}, WithIdempotencyStore(store))

		resp, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "marquer-inapte", IdempotencyKey: "abc"})
		require.NoError(t, err)
		assert.Equal(t, "Inapte", resp.TypeLocalisation)
		store.AssertExpectations(t)
	})

	t.Run("replayed key is a conflict", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, "dossier:1:marquer-inapte:abc", mock.Anything).Return(false, nil)
		svc, dossiers := newTestDossierService(t, DossierServiceConfig{}, WithIdempotencyStore(store))

		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "marquer-inapte", IdempotencyKey: "abc"})
		assert.True(t, errors.Is(err, shared.ErrConflict))

		d, err := dossiers.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, d.PVs)
	})

	t.Run("key is not consumed by a rejected request", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		svc, _ := newTestDossierService(t, DossierServiceConfig{}, WithIdempotencyStore(store))

		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 404, Action: "marquer-inapte", IdempotencyKey: "abc"})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed update releases the key", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, "dossier:1:marquer-inapte:abc", mock.Anything).Return(true, nil).Once()
		store.On("Release", mock.Anything, "dossier:1:marquer-inapte:abc").Return(nil).Once()
		dossiers, catalog := newTestStores(t)
		svc := NewDossierService(&failingUpdateRepository{DossierStore: dossiers, err: context.Canceled},
			catalog, DossierServiceConfig{}, WithIdempotencyStore(store))

		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "marquer-inapte", IdempotencyKey: "abc"})
		assert.ErrorIs(t, err, context.Canceled)
		store.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
		svc, _ := newTestDossierService(t, DossierServiceConfig{}, WithIdempotencyStore(store))

		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "marquer-inapte", IdempotencyKey: "abc"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis down")
	})
}

func TestDossierService_ApplyAction_PublishesEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("event describes the committed action", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 1 {
				return false
			}
			e, ok := events[0].(*localisation.DossierActionApplied)
			return ok && e.DossierID == 1 &&
				e.Action == localisation.ActionTransfert &&
				e.StatutLocalisation == localisation.StatutTransfere &&
				len(e.PVIDs) == 1 && len(e.BordereauIDs) == 1 &&
				e.Utilisateur == "gr.admin"
		})).Return(nil)
		svc, _ := newTestDossierService(t, DossierServiceConfig{}, WithEventPublisher(publisher))

		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "transfert", Payload: ActionPayload{BrigadeID: 2}, Actor: "gr.admin"})
		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the action", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats unavailable"))
		svc, store := newTestDossierService(t, DossierServiceConfig{}, WithEventPublisher(publisher))

		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "marquer-decede"})
		require.NoError(t, err)

		d, err := store.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, localisation.TypeDecede, d.TypeLocalisation)
	})

	t.Run("failed actions publish nothing", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		svc, _ := newTestDossierService(t, DossierServiceConfig{}, WithEventPublisher(publisher))

		_, err := svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "inconnue"})
		require.Error(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestDossierService_AggregateByCampaign(t *testing.T) {
	svc, store := newTestDossierService(t, DossierServiceConfig{})
	ctx := context.Background()

	extra, err := localisation.NewDossier(testReservistes[1], testCampagnes[0], nil, "", testNow)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, extra))

	_, err = svc.ApplyAction(ctx, ApplyActionInput{DossierID: 1, Action: "confirmer-adresse"})
	require.NoError(t, err)
	_, err = svc.ApplyAction(ctx, ApplyActionInput{DossierID: extra.ID, Action: "adresse-inconnue"})
	require.NoError(t, err)

	results, err := svc.AggregateByCampaign(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, CampagneResultResponse{
		CampagneID:       1,
		Campagne:         "Campagne 2025 - Lot Nord",
		Total:            2,
		Localises:        1,
		NonLocalises:     1,
		TauxLocalisation: "0.50",
	}, results[0])
	assert.Equal(t, 2, results[1].CampagneID)
	assert.Equal(t, 1, results[1].Total)
	assert.Equal(t, "0.00", results[1].TauxLocalisation)
}

func TestDossierService_AggregateByCampaign_CampagneWithoutDossiers(t *testing.T) {
	store, catalog := newTestStores(t)
	svc := NewDossierService(store, catalog, DossierServiceConfig{})
	ctx := context.Background()

	created := localisation.Campagne{Nom: "Campagne 2026 - Est", Statut: localisation.CampagneEnCours}
	require.NoError(t, catalog.CreateCampagne(ctx, &created))

	results, err := svc.AggregateByCampaign(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].CampagneID, results[1].CampagneID, results[2].CampagneID})
	assert.Equal(t, CampagneResultResponse{
		CampagneID:       3,
		Campagne:         "Campagne 2026 - Est",
		TauxLocalisation: "0.00",
	}, results[2])
}

func TestDossierService_AggregateMatchesStatutFilter(t *testing.T) {
	svc, _ := newTestDossierService(t, DossierServiceConfig{})
	ctx := context.Background()

	steps := []ApplyActionInput{
		{DossierID: 1, Action: "confirmer-adresse"},
		{DossierID: 2, Action: "marquer-decede"},
		{DossierID: 2, Action: "adresse-inconnue"},
		{DossierID: 1, Action: "nouvelle-adresse", Payload: ActionPayload{Adresse: "12 Rue X"}},
	}
	for _, step := range steps {
		_, err := svc.ApplyAction(ctx, step)
		require.NoError(t, err)

		results, err := svc.AggregateByCampaign(ctx)
		require.NoError(t, err)
		for _, row := range results {
			localises, err := svc.List(ctx, ListDossiersFilter{StatutLocalisation: "Localise", CampagneID: intPtr(row.CampagneID)})
			require.NoError(t, err)
			assert.Equal(t, localises.Total, row.Localises, "campagne %d after %s", row.CampagneID, step.Action)
		}
	}
}

func TestDossierService_AggregateByCampaign_Empty(t *testing.T) {
	store, err := memory.NewDossierStore()
	require.NoError(t, err)
	results, err := NewDossierService(store, memory.NewCatalog(nil, nil, nil), DossierServiceConfig{}).
		AggregateByCampaign(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
