package persistence

import (
	"context"
	"errors"
	"strconv"

	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReferenceCatalog implements localisation.ReferenceCatalog using GORM
type GormReferenceCatalog struct {
	db *gorm.DB
}

// NewGormReferenceCatalog creates a new GormReferenceCatalog
func NewGormReferenceCatalog(db *gorm.DB) *GormReferenceCatalog {
	return &GormReferenceCatalog{db: db}
}

// FindReserviste finds a reservist by CIN
func (r *GormReferenceCatalog) FindReserviste(ctx context.Context, cin string) (*localisation.Reserviste, error) {
	var model models.ReservisteModel
	if err := r.db.WithContext(ctx).First(&model, "cin = ?", cin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("reserviste", cin)
		}
		return nil, err
	}
	res := model.ToDomain()
	return &res, nil
}

// ListReservistes returns every reservist ordered by name
func (r *GormReferenceCatalog) ListReservistes(ctx context.Context) ([]localisation.Reserviste, error) {
	var rows []models.ReservisteModel
	if err := r.db.WithContext(ctx).Order("nom, prenom, cin").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]localisation.Reserviste, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// FindBrigade finds a brigade by id
func (r *GormReferenceCatalog) FindBrigade(ctx context.Context, id int) (*localisation.Brigade, error) {
	var model models.BrigadeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("brigade", strconv.Itoa(id))
		}
		return nil, err
	}
	b := model.ToDomain()
	return &b, nil
}

// ListBrigades returns every brigade ordered by id
func (r *GormReferenceCatalog) ListBrigades(ctx context.Context) ([]localisation.Brigade, error) {
	var rows []models.BrigadeModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]localisation.Brigade, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// FindCampagne finds a campaign by id
func (r *GormReferenceCatalog) FindCampagne(ctx context.Context, id int) (*localisation.Campagne, error) {
	var model models.CampagneModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("campagne", strconv.Itoa(id))
		}
		return nil, err
	}
	c := model.ToDomain()
	return &c, nil
}

// ListCampagnes returns every campaign ordered by id
func (r *GormReferenceCatalog) ListCampagnes(ctx context.Context) ([]localisation.Campagne, error) {
	var rows []models.CampagneModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]localisation.Campagne, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// CreateCampagne inserts the campaign with id max+1
func (r *GormReferenceCatalog) CreateCampagne(ctx context.Context, c *localisation.Campagne) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextID(tx, &models.CampagneModel{})
		if err != nil {
			return err
		}
		var model models.CampagneModel
		model.FromDomain(*c)
		model.ID = next
		if err := tx.Create(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewDomainError(shared.CodeConflict, "Campaign id already taken, retry").WithCause(err)
			}
			return err
		}
		c.ID = next
		return nil
	})
}

// SaveReservistes upserts reservists by CIN
func (r *GormReferenceCatalog) SaveReservistes(ctx context.Context, reservistes []localisation.Reserviste) error {
	if len(reservistes) == 0 {
		return nil
	}
	rows := make([]models.ReservisteModel, len(reservistes))
	for i, res := range reservistes {
		rows[i].FromDomain(res)
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

// SaveBrigades upserts brigades by id
func (r *GormReferenceCatalog) SaveBrigades(ctx context.Context, brigades []localisation.Brigade) error {
	if len(brigades) == 0 {
		return nil
	}
	rows := make([]models.BrigadeModel, len(brigades))
	for i, b := range brigades {
		rows[i].FromDomain(b)
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

// SaveCampagnes upserts campaigns by id
func (r *GormReferenceCatalog) SaveCampagnes(ctx context.Context, campagnes []localisation.Campagne) error {
	if len(campagnes) == 0 {
		return nil
	}
	rows := make([]models.CampagneModel, len(campagnes))
	for i, c := range campagnes {
		rows[i].FromDomain(c)
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

// nextID returns max(id)+1 for the model's table, 1 when empty
func nextID(tx *gorm.DB, model any) (int, error) {
	var maxID int
	if err := tx.Model(model).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return 0, err
	}
	return maxID + 1, nil
}

var _ localisation.ReferenceCatalog = (*GormReferenceCatalog)(nil)
