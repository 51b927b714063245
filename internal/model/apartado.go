package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoApartado is the layaway state machine. ACTIVO is the only state with
// outgoing transitions; COMPLETADO and CANCELADO are terminal.
type EstadoApartado string

const (
	ApartadoActivo     EstadoApartado = "ACTIVO"
	ApartadoCompletado EstadoApartado = "COMPLETADO"
	ApartadoCancelado  EstadoApartado = "CANCELADO"
)

// Apartado is a layaway: stock reserved at creation against a partial payment
// plan. MontoPendiente == MontoTotal - MontoPagado at all times while ACTIVO.
type Apartado struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID       uuid.UUID       `gorm:"type:uuid;not null"`
	ClienteNombre   string          `gorm:"not null"`
	ClienteTelefono string          `gorm:"type:varchar(30);not null"`
	FechaLimite     time.Time       `gorm:"not null"`
	MontoTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoPagado     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoPendiente  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          EstadoApartado  `gorm:"type:varchar(12);not null;default:'ACTIVO';index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items    []ApartadoItem  `gorm:"foreignKey:ApartadoID;constraint:OnDelete:CASCADE"`
	Abonos   []ApartadoAbono `gorm:"foreignKey:ApartadoID;constraint:OnDelete:CASCADE"`
	Sucursal *Sucursal       `gorm:"foreignKey:SucursalID"`
}

// ApartadoItem snapshots one reserved product line.
type ApartadoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ApartadoID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Producto       ProductoRef     `gorm:"embedded"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// ApartadoAbono es un pago parcial registrado sobre un apartado. Append-only.
type ApartadoAbono struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ApartadoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time
}
