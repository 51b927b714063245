package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gasto is an out-of-register expense. It never touches stock; the corte de
// caja reads it when reconciling.
type Gasto struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Concepto   string          `gorm:"not null"`
	Categoria  string          `gorm:"type:varchar(40);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `gorm:"index"`

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
}
