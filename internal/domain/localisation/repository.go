package localisation

import "context"

// DossierRepository stores dossiers. Implementations return snapshot copies:
// mutating a returned dossier never affects the stored one.
type DossierRepository interface {
	// FindByID returns a snapshot of the dossier, or a NOT_FOUND error
	FindByID(ctx context.Context, id int) (*Dossier, error)
	// FindAll returns snapshots in insertion order
	FindAll(ctx context.Context) ([]*Dossier, error)
	// Create inserts the dossier, assigning the next id when d.ID is zero
	Create(ctx context.Context, d *Dossier) error
	// Update runs mutate on a private copy while holding the dossier's exclusive
	// lock and commits the copy only when mutate returns nil.
	Update(ctx context.Context, id int, mutate func(d *Dossier) error) (*Dossier, error)
}

// ReferenceCatalog gives access to reservists, brigades and campaigns
type ReferenceCatalog interface {
	FindReserviste(ctx context.Context, cin string) (*Reserviste, error)
	ListReservistes(ctx context.Context) ([]Reserviste, error)
	FindBrigade(ctx context.Context, id int) (*Brigade, error)
	ListBrigades(ctx context.Context) ([]Brigade, error)
	FindCampagne(ctx context.Context, id int) (*Campagne, error)
	ListCampagnes(ctx context.Context) ([]Campagne, error)
	// CreateCampagne stores a new campaign and assigns it the next id
	CreateCampagne(ctx context.Context, c *Campagne) error
}
