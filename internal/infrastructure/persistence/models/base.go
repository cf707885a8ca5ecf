package models

import "time"

// BaseModel provides the integer key and timestamps shared by every table
type BaseModel struct {
	ID        int       `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// All lists the models migrated by AutoMigrate
func All() []any {
	return []any{
		&ReservisteModel{},
		&BrigadeModel{},
		&CampagneModel{},
		&UserModel{},
	}
}
