// Package memory holds the in-process stores: dossiers, reference catalog and users.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
)

type dossierEntry struct {
	mu      sync.Mutex
	dossier *localisation.Dossier
}

// DossierStore keeps dossiers in memory. The store lock only guards the map and
// the insertion order; each dossier has its own mutex so updates of different
// dossiers never wait on each other.
type DossierStore struct {
	mu      sync.RWMutex
	entries map[int]*dossierEntry
	order   []int
	maxID   int
}

// NewDossierStore creates a store holding copies of the given dossiers
func NewDossierStore(dossiers ...*localisation.Dossier) (*DossierStore, error) {
	s := &DossierStore{entries: make(map[int]*dossierEntry)}
	for _, d := range dossiers {
		if err := s.Create(context.Background(), d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *DossierStore) entry(id int) (*dossierEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, shared.NewNotFoundError("dossier", strconv.Itoa(id))
	}
	return e, nil
}

// FindByID returns a snapshot of the dossier
func (s *DossierStore) FindByID(ctx context.Context, id int) (*localisation.Dossier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dossier.Clone(), nil
}

// FindAll returns snapshots in insertion order
func (s *DossierStore) FindAll(ctx context.Context) ([]*localisation.Dossier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	entries := make([]*dossierEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.entries[id])
	}
	s.mu.RUnlock()

	out := make([]*localisation.Dossier, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.dossier.Clone())
		e.mu.Unlock()
	}
	return out, nil
}

// Create stores a copy of d. A zero id is replaced by max+1.
func (s *DossierStore) Create(ctx context.Context, d *localisation.Dossier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d == nil {
		return shared.NewValidationError("Dossier cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == 0 {
		d.ID = s.maxID + 1
	}
	if d.ID < 0 {
		return shared.NewValidationError(fmt.Sprintf("Invalid dossier id %d", d.ID))
	}
	if _, exists := s.entries[d.ID]; exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("Dossier %d already exists", d.ID))
	}
	s.entries[d.ID] = &dossierEntry{dossier: d.Clone()}
	s.order = append(s.order, d.ID)
	s.maxID = max(s.maxID, d.ID)
	return nil
}

// Update applies mutate to a private copy under the dossier lock and commits it
// only when mutate succeeds. The committed snapshot is returned.
func (s *DossierStore) Update(ctx context.Context, id int, mutate func(d *localisation.Dossier) error) (*localisation.Dossier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	working := e.dossier.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	e.dossier = working
	return working.Clone(), nil
}

// Len returns the number of stored dossiers
func (s *DossierStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// CountByStatut counts dossiers per localisation status, for the dossier gauge
func (s *DossierStore) CountByStatut(ctx context.Context) (map[string]int64, error) {
	dossiers, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, 4)
	for _, d := range dossiers {
		counts[d.StatutLocalisation.String()]++
	}
	return counts, nil
}

var _ localisation.DossierRepository = (*DossierStore)(nil)
