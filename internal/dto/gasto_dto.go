package dto

import "github.com/shopspring/decimal"

type CrearGastoRequest struct {
	SucursalID string          `json:"sucursal_id" validate:"required,uuid"`
	Concepto   string          `json:"concepto"    validate:"required,min=3"`
	Categoria  string          `json:"categoria"   validate:"required,oneof=servicios insumos mantenimiento transporte otros"`
	Monto      decimal.Decimal `json:"monto"       validate:"required"`
}

type GastoResponse struct {
	ID         string          `json:"id"`
	SucursalID string          `json:"sucursal_id"`
	UsuarioID  string          `json:"usuario_id"`
	Concepto   string          `json:"concepto"`
	Categoria  string          `json:"categoria"`
	Monto      decimal.Decimal `json:"monto"`
	CreatedAt  string          `json:"created_at"`
}

// GastoFilter is bound from query string of GET /v1/gastos.
type GastoFilter struct {
	SucursalID string `form:"sucursal_id" validate:"omitempty,uuid"`
	Fecha      string `form:"fecha"` // YYYY-MM-DD; empty = today
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}
