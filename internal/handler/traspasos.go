package handler

import (
	"net/http"

	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TraspasosHandler struct{ svc service.TraspasoService }

func NewTraspasosHandler(svc service.TraspasoService) *TraspasosHandler {
	return &TraspasosHandler{svc: svc}
}

// Traspasar godoc
// @Summary      Traspasar stock entre sucursales
// @Description  Mueve unidades de un producto entre dos sucursales en una sola transacción: lo que sale de origen entra a destino, o nada ocurre.
// @Tags         traspasos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.TraspasoRequest true "Detalle del traspaso"
// @Success      201  {object} dto.TraspasoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/traspasos [post]
func (h *TraspasosHandler) Traspasar(c *gin.Context) {
	var req dto.TraspasoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Traspasar(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
