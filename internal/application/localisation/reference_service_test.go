package localisation

import (
	"context"
	"errors"
	"testing"

	"github.com/localisation/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceService(t *testing.T) {
	_, catalog := newTestStores(t)
	svc := NewReferenceService(catalog)
	ctx := context.Background()

	t.Run("reservistes", func(t *testing.T) {
		all, err := svc.ListReservistes(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		r, err := svc.GetReserviste(ctx, "B654321")
		require.NoError(t, err)
		assert.Equal(t, "Salma", r.Prenom)

		_, err = svc.GetReserviste(ctx, "nope")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("brigades", func(t *testing.T) {
		all, err := svc.ListBrigades(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		b, err := svc.GetBrigade(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Brigade Sud", b.Nom)
	})

	t.Run("campagnes", func(t *testing.T) {
		list, err := svc.ListCampagnes(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, list.Total)

		c, err := svc.GetCampagne(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Terminee", c.Statut)
	})
}

func TestReferenceService_CreateCampagne(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateCampagneRequest
		wantErr error
	}{
		{"defaults to EnCours", CreateCampagneRequest{Nom: "Campagne 2026", DateDebut: "2026-01-01", DateFin: "2026-03-31"}, nil},
		{"blank name", CreateCampagneRequest{Nom: "  "}, shared.ErrValidation},
		{"end before start", CreateCampagneRequest{Nom: "C", DateDebut: "2026-03-01", DateFin: "2026-01-01"}, shared.ErrValidation},
		{"bad date", CreateCampagneRequest{Nom: "C", DateDebut: "01/03/2026"}, shared.ErrValidation},
		{"bad status", CreateCampagneRequest{Nom: "C", Statut: "Archivee"}, shared.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, catalog := newTestStores(t)
			svc := NewReferenceService(catalog)

			resp, err := svc.CreateCampagne(ctx, tt.req)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, resp.ID)
			assert.Equal(t, "EnCours", resp.Statut)
			assert.Equal(t, "2026-03-31", resp.DateFin)

			list, err := svc.ListCampagnes(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, list.Total)
		})
	}
}
