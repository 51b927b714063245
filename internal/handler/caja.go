package handler

import (
	"net/http"
	"strconv"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CorteService }

func NewCajaHandler(svc service.CorteService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary      Abrir caja
// @Description  Abre una sesión de caja para el usuario autenticado. Falla si ya existe una sesión abierta.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirCorteRequest true "Monto inicial"
// @Success      201  {object} dto.CorteResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Activa godoc
// @Summary      Consultar sesión de caja activa
// @Description  Retorna la sesión abierta del usuario con totales recalculados al momento.
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.CorteResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/caja/activa [get]
func (h *CajaHandler) Activa(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Activa(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cerrar godoc
// @Summary      Cerrar caja (corte)
// @Description  Cierra la sesión recalculando los totales del lado del servidor y registrando la diferencia contra el monto contado.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID de la sesión"
// @Param        body body dto.CerrarCorteRequest true "Monto contado"
// @Success      200  {object} dto.CorteResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/caja/{id}/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id, req.MontoContado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary      Historial de cortes
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string true  "UUID de la sucursal"
// @Param        limit       query int    false "Máximo de registros (default 30)"
// @Success      200  {array}  dto.CorteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/caja/historial [get]
func (h *CajaHandler) Historial(c *gin.Context) {
	sucursalID, err := uuid.Parse(c.Query("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Plain("sucursal_id invalido"))
		return
	}
	limit := 30
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	resp, err := h.svc.Historial(c.Request.Context(), sucursalID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
