package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/localisation/backend/internal/domain/identity"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user with id max+1. Emails are stored lower-cased.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserModel{}).
			Where("email = ?", strings.ToLower(user.Email)).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError(shared.CodeAlreadyExists, "A user with this email already exists")
		}
		next, err := nextID(tx, &models.UserModel{})
		if err != nil {
			return err
		}
		var model models.UserModel
		model.FromDomain(user)
		model.ID = next
		model.Email = strings.ToLower(user.Email)
		if err := tx.Create(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewDomainError(shared.CodeAlreadyExists, "A user with this email already exists").WithCause(err)
			}
			return err
		}
		user.ID = next
		return nil
	})
}

// FindByID finds a user by id
func (r *GormUserRepository) FindByID(ctx context.Context, id int) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("user", strconv.Itoa(id))
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		First(&model, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("user", email)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every user ordered by id
func (r *GormUserRepository) FindAll(ctx context.Context) ([]*identity.User, error) {
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*identity.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// SaveAll upserts users keeping their ids
func (r *GormUserRepository) SaveAll(ctx context.Context, users []*identity.User) error {
	if len(users) == 0 {
		return nil
	}
	rows := make([]models.UserModel, len(users))
	for i, u := range users {
		rows[i].FromDomain(u)
	}
	return r.db.WithContext(ctx).Save(&rows).Error
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
