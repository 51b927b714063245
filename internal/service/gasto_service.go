package service

import (
	"context"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
)

type GastoService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.CrearGastoRequest) (*dto.GastoResponse, error)
	Listar(ctx context.Context, filter dto.GastoFilter) ([]dto.GastoResponse, int64, error)
}

type gastoService struct {
	repo         repository.GastoRepository
	sucursalRepo repository.SucursalRepository
}

func NewGastoService(repo repository.GastoRepository, sucursalRepo repository.SucursalRepository) GastoService {
	return &gastoService{repo: repo, sucursalRepo: sucursalRepo}
}

func (s *gastoService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.CrearGastoRequest) (*dto.GastoResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "sucursal_id inválido")
	}
	if _, err := s.sucursalRepo.FindByID(ctx, sucursalID); err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "sucursal no encontrada")
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.New(apierror.CodeMontoInvalido, "el monto del gasto debe ser mayor a cero")
	}

	gasto := &model.Gasto{
		SucursalID: sucursalID,
		UsuarioID:  usuarioID,
		Concepto:   req.Concepto,
		Categoria:  req.Categoria,
		Monto:      req.Monto,
	}
	if err := s.repo.Create(ctx, gasto); err != nil {
		return nil, err
	}
	return gastoToResponse(gasto), nil
}

func (s *gastoService) Listar(ctx context.Context, filter dto.GastoFilter) ([]dto.GastoResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	gastos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.GastoResponse, 0, len(gastos))
	for i := range gastos {
		out = append(out, *gastoToResponse(&gastos[i]))
	}
	return out, total, nil
}

func gastoToResponse(g *model.Gasto) *dto.GastoResponse {
	return &dto.GastoResponse{
		ID:         g.ID.String(),
		SucursalID: g.SucursalID.String(),
		UsuarioID:  g.UsuarioID.String(),
		Concepto:   g.Concepto,
		Categoria:  g.Categoria,
		Monto:      g.Monto,
		CreatedAt:  g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
