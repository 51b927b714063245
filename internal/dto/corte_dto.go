package dto

import "github.com/shopspring/decimal"

type AbrirCorteRequest struct {
	SucursalID   string          `json:"sucursal_id"   validate:"required,uuid"`
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

type CerrarCorteRequest struct {
	MontoContado decimal.Decimal `json:"monto_contado" validate:"min=0"`
}

type CorteResponse struct {
	ID            string           `json:"id"`
	SucursalID    string           `json:"sucursal_id"`
	UsuarioID     string           `json:"usuario_id"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	TotalVentas   decimal.Decimal  `json:"total_ventas"`
	TotalGastos   decimal.Decimal  `json:"total_gastos"`
	MontoEsperado decimal.Decimal  `json:"monto_esperado"`
	MontoContado  *decimal.Decimal `json:"monto_contado,omitempty"`
	Diferencia    *decimal.Decimal `json:"diferencia,omitempty"`
	Estado        string           `json:"estado"` // abierto | cerrado
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at,omitempty"`
}
