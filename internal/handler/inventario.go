package handler

import (
	"net/http"
	"strconv"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.StockService }

func NewInventarioHandler(svc service.StockService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// ConsultarStock godoc
// @Summary      Consultar stock de un producto en una sucursal
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id          path  string true "UUID del producto"
// @Param        sucursal_id query string true "UUID de la sucursal"
// @Success      200  {object} dto.StockResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/productos/{id}/stock [get]
func (h *InventarioHandler) ConsultarStock(c *gin.Context) {
	productoID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	sucursalID, err := uuid.Parse(c.Query("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Plain("sucursal_id invalido"))
		return
	}
	cantidad, err := h.svc.Consultar(c.Request.Context(), productoID, sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockResponse{
		ProductoID: productoID.String(),
		SucursalID: sucursalID.String(),
		Cantidad:   cantidad,
	})
}

// StockSucursal godoc
// @Summary      Stock completo de una sucursal
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sucursal"
// @Success      200  {array}  dto.StockResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/sucursales/{id}/stock [get]
func (h *InventarioHandler) StockSucursal(c *gin.Context) {
	sucursalID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	rows, err := h.svc.StockSucursal(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.StockResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, dto.StockResponse{
			ProductoID: row.ProductoID.String(),
			SucursalID: row.SucursalID.String(),
			Cantidad:   row.Cantidad,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Corrección por recuento físico o merma. Un delta negativo que deje el stock bajo cero se rechaza.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del producto"
// @Param        body body dto.AjustarStockRequest true "Delta y motivo"
// @Success      200  {object} dto.StockResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/productos/{id}/ajustes [post]
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	productoID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sucursalID, _ := uuid.Parse(req.SucursalID)

	cantidad, err := h.svc.AjusteManual(c.Request.Context(), productoID, sucursalID, req.Delta, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockResponse{
		ProductoID: productoID.String(),
		SucursalID: sucursalID.String(),
		Cantidad:   cantidad,
	})
}

// Movimientos godoc
// @Summary      Historial de movimientos de un producto
// @Description  Ledger append-only: cada venta, anulación, traspaso, apartado y ajuste deja un movimiento.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del producto"
// @Param        limit query int    false "Máximo de registros (default 50)"
// @Success      200  {array}  model.MovimientoStock
// @Failure      400  {object} apierror.APIError
// @Router       /v1/productos/{id}/movimientos [get]
func (h *InventarioHandler) Movimientos(c *gin.Context) {
	productoID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	movs, err := h.svc.Movimientos(c.Request.Context(), productoID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movs)
}
