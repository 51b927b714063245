package service

import (
	"context"

	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService is the stock ledger: the only mutation path for quantities.
// Every adjustment runs inside the transaction of the operation that justifies
// it (venta, traspaso, apartado, anulación) and leaves an append-only
// MovimientoStock row behind.
type StockService interface {
	// AjustarTx applies delta under the enclosing transaction's row lock and
	// records the movement. Returns the new quantity.
	AjustarTx(tx *gorm.DB, productoID, sucursalID uuid.UUID, delta int, tipo, motivo string, referenciaID *uuid.UUID) (int, error)

	// AjusteManual is a standalone correction (recuento físico, merma). Opens
	// its own transaction.
	AjusteManual(ctx context.Context, productoID, sucursalID uuid.UUID, delta int, motivo string) (int, error)

	Consultar(ctx context.Context, productoID, sucursalID uuid.UUID) (int, error)
	StockSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.StockSucursal, error)
	Movimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error)
}

type stockService struct {
	repo repository.StockRepository
}

func NewStockService(repo repository.StockRepository) StockService {
	return &stockService{repo: repo}
}

func (s *stockService) AjustarTx(tx *gorm.DB, productoID, sucursalID uuid.UUID, delta int, tipo, motivo string, referenciaID *uuid.UUID) (int, error) {
	antes, despues, err := s.repo.AjustarTx(tx, productoID, sucursalID, delta)
	if err != nil {
		return 0, err
	}

	mov := &model.MovimientoStock{
		ProductoID:    productoID,
		SucursalID:    sucursalID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: antes,
		StockNuevo:    despues,
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	}
	if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
		return 0, err
	}
	return despues, nil
}

func (s *stockService) AjusteManual(ctx context.Context, productoID, sucursalID uuid.UUID, delta int, motivo string) (int, error) {
	var despues int
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		despues, err = s.AjustarTx(tx, productoID, sucursalID, delta, model.MovAjusteManual, motivo, nil)
		return err
	})
	return despues, err
}

func (s *stockService) Consultar(ctx context.Context, productoID, sucursalID uuid.UUID) (int, error) {
	return s.repo.Consultar(ctx, productoID, sucursalID)
}

func (s *stockService) StockSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.StockSucursal, error) {
	return s.repo.ListBySucursal(ctx, sucursalID)
}

func (s *stockService) Movimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	return s.repo.ListMovimientos(ctx, productoID, limit)
}
