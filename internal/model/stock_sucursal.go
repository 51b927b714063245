package model

import (
	"time"

	"github.com/google/uuid"
)

// StockSucursal is the atomic unit of inventory truth: quantity of one product
// at one branch. Cantidad never goes below zero (CHECK constraint, re-validated
// by the ledger under row locks). A missing row means zero stock with no
// history — the ledger only creates rows on positive adjustment.
type StockSucursal struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_producto_sucursal"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_producto_sucursal"`
	Cantidad   int       `gorm:"not null;default:0;check:cantidad >= 0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
}

func (StockSucursal) TableName() string { return "stock_sucursales" }
