package model

import (
	"time"

	"github.com/google/uuid"
)

// Traspaso records a stock transfer between two branches. The record and the
// two stock mutations commit in the same transaction — a reader never sees
// stock missing from origin without it present at destination.
type Traspaso struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrigenID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DestinoID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Cantidad   int       `gorm:"not null"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Origen   *Sucursal `gorm:"foreignKey:OrigenID"`
	Destino  *Sucursal `gorm:"foreignKey:DestinoID"`
}

func (Traspaso) TableName() string { return "traspasos" }
