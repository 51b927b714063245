package model

import (
	"time"

	"github.com/google/uuid"
)

// Sucursal is a branch. Stock rows, sales, expenses and cash sessions all
// reference it.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre    string    `gorm:"uniqueIndex;not null" json:"nombre"`
	Direccion string    `json:"direccion"`
	CreatedAt time.Time `json:"created_at"`
}

func (Sucursal) TableName() string { return "sucursales" }
