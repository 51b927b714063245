package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarVentaRequest struct {
	SucursalID   string             `json:"sucursal_id"   validate:"required,uuid"`
	MetodoPago   string             `json:"metodo_pago"   validate:"required,oneof=efectivo tarjeta transferencia"`
	DescuentoPct decimal.Decimal    `json:"descuento_pct" validate:"min=0,max=100"`
	Items        []ItemVentaRequest `json:"items"         validate:"required,min=1,dive"`
	// ClienteTelefono: opcional — cuando está presente, el worker de
	// notificaciones envía el ticket por WhatsApp tras el commit.
	ClienteTelefono *string `json:"cliente_telefono" validate:"omitempty,min=8"`
	ClienteEmail    *string `json:"cliente_email"    validate:"omitempty,email"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	SucursalID string `form:"sucursal_id" validate:"omitempty,uuid"`
	Fecha      string `form:"fecha"`      // YYYY-MM-DD; empty = today
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	ProductoTipo   string          `json:"producto_tipo"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	IVAAplicado    decimal.Decimal `json:"iva_aplicado"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	SucursalID     string              `json:"sucursal_id"`
	UsuarioID      string              `json:"usuario_id"`
	MetodoPago     string              `json:"metodo_pago"`
	Items          []ItemVentaResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	IVATotal       decimal.Decimal     `json:"iva_total"`
	DescuentoTotal decimal.Decimal     `json:"descuento_total"`
	Total          decimal.Decimal     `json:"total"`
	Estado         string              `json:"estado"`
	CreatedAt      string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
