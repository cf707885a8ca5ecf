package models

import "github.com/localisation/backend/internal/domain/identity"

// UserModel is the persistence model for a back-office account
type UserModel struct {
	BaseModel
	Nom          string        `gorm:"type:varchar(100);not null"`
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Role         identity.Role `gorm:"type:varchar(30);not null"`
	PasswordHash string        `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:           m.ID,
		Nom:          m.Nom,
		Email:        m.Email,
		Role:         m.Role,
		PasswordHash: m.PasswordHash,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.ID = u.ID
	m.Nom = u.Nom
	m.Email = u.Email
	m.Role = u.Role
	m.PasswordHash = u.PasswordHash
}
