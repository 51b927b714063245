package dto

import "github.com/shopspring/decimal"

type ItemApartadoRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
}

type CrearApartadoRequest struct {
	SucursalID      string                `json:"sucursal_id"      validate:"required,uuid"`
	ClienteNombre   string                `json:"cliente_nombre"   validate:"required,min=2"`
	ClienteTelefono string                `json:"cliente_telefono" validate:"required,min=8"`
	FechaLimite     string                `json:"fecha_limite"     validate:"required"` // YYYY-MM-DD
	Items           []ItemApartadoRequest `json:"items"            validate:"required,min=1,dive"`
	AbonoInicial    decimal.Decimal       `json:"abono_inicial"    validate:"min=0"`
}

type AbonarApartadoRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required"`
}

type ItemApartadoResponse struct {
	ProductoID     string          `json:"producto_id"`
	ProductoTipo   string          `json:"producto_tipo"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type ApartadoResponse struct {
	ID              string                 `json:"id"`
	SucursalID      string                 `json:"sucursal_id"`
	ClienteNombre   string                 `json:"cliente_nombre"`
	ClienteTelefono string                 `json:"cliente_telefono"`
	FechaLimite     string                 `json:"fecha_limite"`
	MontoTotal      decimal.Decimal        `json:"monto_total"`
	MontoPagado     decimal.Decimal        `json:"monto_pagado"`
	MontoPendiente  decimal.Decimal        `json:"monto_pendiente"`
	Estado          string                 `json:"estado"`
	Items           []ItemApartadoResponse `json:"items"`
	CreatedAt       string                 `json:"created_at"`
}
