package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	VentaCompletada = "completada"
)

// Venta is an immutable sale record. It is created atomically with its items
// and the corresponding stock decrements; cancellation restores every item's
// stock and deletes the record and its items in the same transaction, so a
// sale never exists without its stock effect nor vice versa.
type Venta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPago   string          `gorm:"type:varchar(20);not null"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVATotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;column:iva_total"`
	DescuentoTot decimal.Decimal `gorm:"type:decimal(12,2);not null;column:descuento_total"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'completada'"`
	CreatedAt    time.Time       `gorm:"index"`

	Items    []VentaItem `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Sucursal *Sucursal   `gorm:"foreignKey:SucursalID"`
	Usuario  *Usuario    `gorm:"foreignKey:UsuarioID"`
}

// VentaItem snapshots one sale line. PrecioUnitario is net of tax; the list
// price can be reconstructed as PrecioUnitario + IVAUnitario.
type VentaItem struct {
	ID       uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID  uuid.UUID   `gorm:"type:uuid;index;not null"`
	Producto ProductoRef `gorm:"embedded"`
	Cantidad int         `gorm:"not null"`
	// PrecioUnitario es el precio unitario neto de IVA, ya con descuento aplicado.
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	IVAAplicado    decimal.Decimal `gorm:"type:decimal(12,4);not null;column:iva_aplicado"`
	DescuentoAplic decimal.Decimal `gorm:"type:decimal(12,4);not null;column:descuento_aplicado"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
