package service

import (
	"context"
	"fmt"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TraspasoService interface {
	Traspasar(ctx context.Context, usuarioID uuid.UUID, req dto.TraspasoRequest) (*dto.TraspasoResponse, error)
}

type traspasoService struct {
	stock        StockService
	stockRepo    repository.StockRepository
	productoRepo repository.ProductoRepository
	sucursalRepo repository.SucursalRepository
}

func NewTraspasoService(
	stock StockService,
	stockRepo repository.StockRepository,
	productoRepo repository.ProductoRepository,
	sucursalRepo repository.SucursalRepository,
) TraspasoService {
	return &traspasoService{
		stock:        stock,
		stockRepo:    stockRepo,
		productoRepo: productoRepo,
		sucursalRepo: sucursalRepo,
	}
}

// Traspasar moves cantidad units of one product between two branches in one
// transaction. No intermediate state is observable: a reader never sees stock
// gone from origen without it present at destino.
func (s *traspasoService) Traspasar(ctx context.Context, usuarioID uuid.UUID, req dto.TraspasoRequest) (*dto.TraspasoResponse, error) {
	if req.Cantidad <= 0 {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "la cantidad debe ser mayor a cero")
	}
	if req.OrigenID == req.DestinoID {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "la sucursal de origen y destino deben ser distintas")
	}

	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "producto_id inválido")
	}
	origenID, err := uuid.Parse(req.OrigenID)
	if err != nil {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "origen_id inválido")
	}
	destinoID, err := uuid.Parse(req.DestinoID)
	if err != nil {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "destino_id inválido")
	}

	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "producto no encontrado")
	}
	if _, err := s.sucursalRepo.FindByID(ctx, origenID); err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "sucursal de origen no encontrada")
	}
	if _, err := s.sucursalRepo.FindByID(ctx, destinoID); err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "sucursal de destino no encontrada")
	}

	traspaso := model.Traspaso{
		ProductoID: productoID,
		OrigenID:   origenID,
		DestinoID:  destinoID,
		Cantidad:   req.Cantidad,
		UsuarioID:  usuarioID,
	}
	var stockOrigen, stockDestino int

	txErr := runTx(ctx, s.stockRepo.DB(), func(tx *gorm.DB) error {
		if err := s.stockRepo.CreateTraspasoTx(tx, &traspaso); err != nil {
			return err
		}
		ref := traspaso.ID
		motivo := fmt.Sprintf("Traspaso %s", traspaso.ID)

		stockOrigen, err = s.stock.AjustarTx(tx, productoID, origenID, -req.Cantidad,
			model.MovTraspasoSalida, motivo, &ref)
		if err != nil {
			if e := apierror.AsError(err); e != nil {
				return apierror.Newf(e.Code, "%s: %s", producto.Nombre, e.Message)
			}
			return err
		}

		// Destination row is created at cantidad when absent (upsert).
		stockDestino, err = s.stock.AjustarTx(tx, productoID, destinoID, req.Cantidad,
			model.MovTraspasoEntrada, motivo, &ref)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.TraspasoResponse{
		ID:           traspaso.ID.String(),
		ProductoID:   productoID.String(),
		OrigenID:     origenID.String(),
		DestinoID:    destinoID.String(),
		Cantidad:     req.Cantidad,
		StockOrigen:  stockOrigen,
		StockDestino: stockDestino,
		CreatedAt:    traspaso.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}
