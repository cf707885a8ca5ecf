package localisation

import (
	"context"
	"testing"
	"time"

	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockDocumentStorage is a mock implementation of DocumentStorage
type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockDocumentStorage) Get(ctx context.Context, key string) (*StoredDocument, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StoredDocument), args.Error(1)
}

// failingUpdateRepository reads from the wrapped store and fails every Update
type failingUpdateRepository struct {
	*memory.DossierStore
	err error
}

func (r *failingUpdateRepository) Update(context.Context, int, func(*localisation.Dossier) error) (*localisation.Dossier, error) {
	return nil, r.err
}

var (
	testReservistes = []localisation.Reserviste{
		{CIN: "A123456", Nom: "El Mansouri", Prenom: "Youssef", AdresseReference: "12 Rue Atlas, Rabat"},
		{CIN: "B654321", Nom: "Bennani", Prenom: "Salma", AdresseReference: "45 Avenue Hassan II, Casablanca"},
	}
	testBrigades = []localisation.Brigade{
		{ID: 1, Nom: "Brigade Nord", Zone: "Rabat - Salé - Kénitra"},
		{ID: 2, Nom: "Brigade Sud", Zone: "Casablanca - Settat"},
	}
	testCampagnes = []localisation.Campagne{
		{ID: 1, Nom: "Campagne 2025 - Lot Nord", Statut: localisation.CampagneEnCours},
		{ID: 2, Nom: "Campagne 2024 - Sud", Statut: localisation.CampagneTerminee},
	}
)

// newTestStores builds a catalog and a store with two dossiers:
// 1 = A123456 / campagne 1 / brigade 1, 2 = B654321 / campagne 2 / brigade 2
func newTestStores(t *testing.T) (*memory.DossierStore, *memory.Catalog) {
	t.Helper()
	catalog := memory.NewCatalog(testReservistes, testBrigades, testCampagnes)

	d1, err := localisation.NewDossier(testReservistes[0], testCampagnes[0], &testBrigades[0], "", testNow.Add(-48*time.Hour))
	require.NoError(t, err)
	d2, err := localisation.NewDossier(testReservistes[1], testCampagnes[1], &testBrigades[1], "", testNow.Add(-24*time.Hour))
	require.NoError(t, err)

	store, err := memory.NewDossierStore(d1, d2)
	require.NoError(t, err)
	return store, catalog
}

func newTestDossierService(t *testing.T, cfg DossierServiceConfig, opts ...DossierServiceOption) (*DossierService, *memory.DossierStore) {
	t.Helper()
	store, catalog := newTestStores(t)
	opts = append([]DossierServiceOption{WithClock(func() time.Time { return testNow })}, opts...)
	return NewDossierService(store, catalog, cfg, opts...), store
}
