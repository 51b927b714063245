package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimiento de stock.
const (
	MovVenta             = "venta"
	MovAnulacionVenta    = "anulacion_venta"
	MovTraspasoSalida    = "traspaso_salida"
	MovTraspasoEntrada   = "traspaso_entrada"
	MovApartado          = "apartado"
	MovApartadoCancelado = "apartado_cancelado"
	MovAjusteManual      = "ajuste_manual"
)

// MovimientoStock registra cada cambio de stock de un producto en una sucursal.
// Append-only: los movimientos nunca se modifican ni se borran; una anulación
// genera el movimiento inverso.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SucursalID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"type:varchar(30);not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	// ReferenciaID links to the originating venta, traspaso or apartado.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }
