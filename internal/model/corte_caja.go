package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CorteCaja is a cashier's working shift: opened with a cash float, closed by
// reconciling counted cash against system-computed totals. At most one open
// session (ClosedAt == nil) may exist per user — enforced by a partial unique
// index on (usuario_id) WHERE closed_at IS NULL, not just by the service guard,
// so concurrent open attempts collapse to one row.
type CorteCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// TotalVentas y TotalGastos se recalculan del lado del servidor al cerrar;
	// nunca se confía en un total enviado por el cliente.
	TotalVentas  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TotalGastos  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	MontoContado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Diferencia = contado - esperado; positivo = sobrante.
	Diferencia *decimal.Decimal `gorm:"type:decimal(12,2)"`
	OpenedAt   time.Time        `gorm:"not null"`
	ClosedAt   *time.Time

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
}

func (CorteCaja) TableName() string { return "cortes_caja" }

// Abierto reports whether the session is still open.
func (c *CorteCaja) Abierto() bool { return c.ClosedAt == nil }

// MontoEsperado = float inicial + ventas - gastos.
func (c *CorteCaja) MontoEsperado() decimal.Decimal {
	return c.MontoInicial.Add(c.TotalVentas).Sub(c.TotalGastos)
}
