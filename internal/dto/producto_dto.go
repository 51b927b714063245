package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Tipo        string          `json:"tipo"         validate:"required,oneof=libro dulce"`
	Nombre      string          `json:"nombre"       validate:"required,min=2"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"required"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"required"`
	IVAPct      decimal.Decimal `json:"iva_pct"      validate:"min=0,max=100"`
}

type ProductoResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	IVAPct      decimal.Decimal `json:"iva_pct"`
	Estado      string          `json:"estado"`
}

// ProductoFilter is bound from the query string of GET /v1/productos.
// Estado: "retirado" = solo retirados, "all" = todos, default = activos.
type ProductoFilter struct {
	Tipo   string `form:"tipo"   validate:"omitempty,oneof=libro dulce"`
	Nombre string `form:"nombre"`
	Estado string `form:"estado"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// StockResponse reports the quantity of one product at one branch.
type StockResponse struct {
	ProductoID string `json:"producto_id"`
	SucursalID string `json:"sucursal_id"`
	Cantidad   int    `json:"cantidad"`
}

type AjustarStockRequest struct {
	SucursalID string `json:"sucursal_id" validate:"required,uuid"`
	Delta      int    `json:"delta"       validate:"required"`
	Motivo     string `json:"motivo"      validate:"required,min=3"`
}
