package handler

import (
	"net/http"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/gin-gonic/gin"
)

// SucursalesHandler works directly against the repository: branches carry no
// business rules beyond existence.
type SucursalesHandler struct{ repo repository.SucursalRepository }

func NewSucursalesHandler(repo repository.SucursalRepository) *SucursalesHandler {
	return &SucursalesHandler{repo: repo}
}

// Crear godoc
// @Summary      Crear sucursal
// @Tags         sucursales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearSucursalRequest true "Detalle de la sucursal"
// @Success      201  {object} model.Sucursal
// @Failure      400  {object} apierror.APIError
// @Router       /v1/sucursales [post]
func (h *SucursalesHandler) Crear(c *gin.Context) {
	var req dto.CrearSucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s := model.Sucursal{Nombre: req.Nombre, Direccion: req.Direccion}
	if err := h.repo.Create(c.Request.Context(), &s); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// Listar godoc
// @Summary      Listar sucursales
// @Tags         sucursales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} model.Sucursal
// @Router       /v1/sucursales [get]
func (h *SucursalesHandler) Listar(c *gin.Context) {
	sucursales, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sucursales)
}
