package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
)

// Catalog is the in-memory reference catalog. Lists keep insertion order.
type Catalog struct {
	mu          sync.RWMutex
	reservistes []localisation.Reserviste
	brigades    []localisation.Brigade
	campagnes   []localisation.Campagne
}

// NewCatalog creates a catalog holding copies of the given reference data
func NewCatalog(reservistes []localisation.Reserviste, brigades []localisation.Brigade, campagnes []localisation.Campagne) *Catalog {
	return &Catalog{
		reservistes: append([]localisation.Reserviste(nil), reservistes...),
		brigades:    append([]localisation.Brigade(nil), brigades...),
		campagnes:   append([]localisation.Campagne(nil), campagnes...),
	}
}

func (c *Catalog) FindReserviste(_ context.Context, cin string) (*localisation.Reserviste, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.reservistes {
		if r.CIN == cin {
			out := r
			return &out, nil
		}
	}
	return nil, shared.NewNotFoundError("reserviste", cin)
}

func (c *Catalog) ListReservistes(_ context.Context) ([]localisation.Reserviste, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]localisation.Reserviste, 0, len(c.reservistes)), c.reservistes...), nil
}

func (c *Catalog) FindBrigade(_ context.Context, id int) (*localisation.Brigade, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.brigades {
		if b.ID == id {
			out := b
			return &out, nil
		}
	}
	return nil, shared.NewNotFoundError("brigade", strconv.Itoa(id))
}

func (c *Catalog) ListBrigades(_ context.Context) ([]localisation.Brigade, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]localisation.Brigade, 0, len(c.brigades)), c.brigades...), nil
}

func (c *Catalog) FindCampagne(_ context.Context, id int) (*localisation.Campagne, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, camp := range c.campagnes {
		if camp.ID == id {
			out := camp
			return &out, nil
		}
	}
	return nil, shared.NewNotFoundError("campagne", strconv.Itoa(id))
}

func (c *Catalog) ListCampagnes(_ context.Context) ([]localisation.Campagne, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]localisation.Campagne, 0, len(c.campagnes)), c.campagnes...), nil
}

// CreateCampagne assigns max+1 to the campaign and stores a copy
func (c *Catalog) CreateCampagne(_ context.Context, camp *localisation.Campagne) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := 0
	for _, existing := range c.campagnes {
		next = max(next, existing.ID)
	}
	camp.ID = next + 1
	c.campagnes = append(c.campagnes, *camp)
	return nil
}

var _ localisation.ReferenceCatalog = (*Catalog)(nil)
