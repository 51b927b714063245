package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoProducto distingue las dos variantes del catálogo.
type TipoProducto string

const (
	TipoLibro TipoProducto = "libro"
	TipoDulce TipoProducto = "dulce"
)

// EstadoProducto es el estado de ciclo de vida del producto.
// Un producto retirado no puede venderse ni apartarse, pero sus líneas
// históricas permanecen intactas.
type EstadoProducto string

const (
	ProductoActivo   EstadoProducto = "activo"
	ProductoRetirado EstadoProducto = "retirado"
)

// Producto represents both catalog variants (libro y dulce, same shape).
// Price changes never rewrite history: sale and layaway lines snapshot the
// unit price at the moment of the operation.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo        TipoProducto    `gorm:"type:varchar(10);not null;index"`
	Nombre      string          `gorm:"index;not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// IVAPct is the tax rate in percent (e.g. 16 for 16%).
	IVAPct    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;column:iva_pct"`
	Estado    EstadoProducto  `gorm:"type:varchar(10);not null;default:'activo';index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductoRef identifies exactly one product of one variant. VentaItem and
// ApartadoItem embed it so "exactly one variant set" holds by construction
// instead of by two nullable columns.
type ProductoRef struct {
	Tipo TipoProducto `gorm:"type:varchar(10);not null;column:producto_tipo"`
	ID   uuid.UUID    `gorm:"type:uuid;not null;index;column:producto_id"`
}
