package handler

import (
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GastosHandler struct{ svc service.GastoService }

func NewGastosHandler(svc service.GastoService) *GastosHandler { return &GastosHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar gasto
// @Description  Registra un egreso de caja (servicios, insumos, etc.) atribuido al usuario autenticado.
// @Tags         gastos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearGastoRequest true "Detalle del gasto"
// @Success      201  {object} dto.GastoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/gastos [post]
func (h *GastosHandler) Registrar(c *gin.Context) {
	var req dto.CrearGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Registrar(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar gastos
// @Tags         gastos
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string false "UUID de la sucursal"
// @Param        fecha       query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        page        query int    false "Página (default 1)"
// @Param        limit       query int    false "Registros por página (default 50)"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} apierror.APIError
// @Router       /v1/gastos [get]
func (h *GastosHandler) Listar(c *gin.Context) {
	var filter dto.GastoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Plain(err.Error()))
		return
	}
	gastos, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  gastos,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
