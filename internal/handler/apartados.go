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

type ApartadosHandler struct{ svc service.ApartadoService }

func NewApartadosHandler(svc service.ApartadoService) *ApartadosHandler {
	return &ApartadosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear apartado
// @Description  Reserva stock contra un plan de pagos: descuenta las unidades al crear y registra el abono inicial si lo hay.
// @Tags         apartados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearApartadoRequest true "Detalle del apartado"
// @Success      201  {object} dto.ApartadoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/apartados [post]
func (h *ApartadosHandler) Crear(c *gin.Context) {
	var req dto.CrearApartadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Abonar godoc
// @Summary      Registrar abono
// @Description  Registra un pago parcial sobre un apartado ACTIVO. Un abono que exceda el saldo pendiente se rechaza.
// @Tags         apartados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "UUID del apartado"
// @Param        body body dto.AbonarApartadoRequest true "Monto del abono"
// @Success      200  {object} dto.ApartadoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/apartados/{id}/abonos [post]
func (h *ApartadosHandler) Abonar(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AbonarApartadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abonar(c.Request.Context(), id, req.Monto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Completar godoc
// @Summary      Completar apartado
// @Description  Marca como COMPLETADO un apartado ACTIVO con saldo en cero. El stock ya fue descontado al crear.
// @Tags         apartados
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del apartado"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/apartados/{id}/completar [post]
func (h *ApartadosHandler) Completar(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Completar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cancelar godoc
// @Summary      Cancelar apartado
// @Description  Cancela un apartado ACTIVO restaurando el stock reservado en la misma transacción.
// @Tags         apartados
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del apartado"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/apartados/{id} [delete]
func (h *ApartadosHandler) Cancelar(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Obtener godoc
// @Summary      Consultar apartado
// @Tags         apartados
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del apartado"
// @Success      200  {object} dto.ApartadoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/apartados/{id} [get]
func (h *ApartadosHandler) Obtener(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarActivos godoc
// @Summary      Listar apartados activos
// @Tags         apartados
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string true "UUID de la sucursal"
// @Success      200  {array}  dto.ApartadoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/apartados [get]
func (h *ApartadosHandler) ListarActivos(c *gin.Context) {
	sucursalID, err := uuid.Parse(c.Query("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Plain("sucursal_id invalido"))
		return
	}
	resp, err := h.svc.ListActivos(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
