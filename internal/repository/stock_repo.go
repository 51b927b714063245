package repository

import (
	"context"

	"tiendapos/internal/apierror"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository is the data access contract for the per-(producto, sucursal)
// stock ledger. AjustarTx is the single mutation path: every stock change in
// the system goes through it, inside the transaction of the operation that
// justifies it.
type StockRepository interface {
	// AjustarTx applies delta to the (producto, sucursal) row under a row lock.
	// Returns the quantity before and after. A positive delta on a missing row
	// creates it; a negative delta on a missing row is NO_ENCONTRADO; a delta
	// that would take the row below zero is STOCK_INSUFICIENTE.
	AjustarTx(tx *gorm.DB, productoID, sucursalID uuid.UUID, delta int) (antes, despues int, err error)

	// Consultar reads the current quantity outside any transaction. Missing
	// row reads as zero.
	Consultar(ctx context.Context, productoID, sucursalID uuid.UUID) (int, error)

	ListBySucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.StockSucursal, error)

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error
	ListMovimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error)

	CreateTraspasoTx(tx *gorm.DB, t *model.Traspaso) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) AjustarTx(tx *gorm.DB, productoID, sucursalID uuid.UUID, delta int) (int, int, error) {
	var row model.StockSucursal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("producto_id = ? AND sucursal_id = ?", productoID, sucursalID).
		First(&row).Error

	switch {
	case err == gorm.ErrRecordNotFound:
		if delta < 0 {
			// No stock history: cannot sell what was never stocked.
			return 0, 0, apierror.Newf(apierror.CodeNoEncontrado,
				"no existe stock del producto %s en la sucursal", productoID)
		}
		row = model.StockSucursal{ProductoID: productoID, SucursalID: sucursalID, Cantidad: delta}
		if err := tx.Create(&row).Error; err != nil {
			return 0, 0, err
		}
		return 0, delta, nil
	case err != nil:
		return 0, 0, err
	}

	nueva := row.Cantidad + delta
	if nueva < 0 {
		return row.Cantidad, row.Cantidad, apierror.Newf(apierror.CodeStockInsuficiente,
			"stock insuficiente: disponible %d, solicitado %d", row.Cantidad, -delta)
	}
	if err := tx.Model(&model.StockSucursal{}).Where("id = ?", row.ID).
		Update("cantidad", nueva).Error; err != nil {
		return row.Cantidad, row.Cantidad, err
	}
	return row.Cantidad, nueva, nil
}

func (r *stockRepo) Consultar(ctx context.Context, productoID, sucursalID uuid.UUID) (int, error) {
	var row model.StockSucursal
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND sucursal_id = ?", productoID, sucursalID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil // absence means zero
	}
	if err != nil {
		return 0, err
	}
	return row.Cantidad, nil
}

func (r *stockRepo) ListBySucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.StockSucursal, error) {
	var rows []model.StockSucursal
	err := r.db.WithContext(ctx).Preload("Producto").
		Where("sucursal_id = ?", sucursalID).Find(&rows).Error
	return rows, err
}

func (r *stockRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *stockRepo) ListMovimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	if limit <= 0 {
		limit = 100
	}
	var movs []model.MovimientoStock
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).
		Order("created_at DESC").Limit(limit).Find(&movs).Error
	return movs, err
}

func (r *stockRepo) CreateTraspasoTx(tx *gorm.DB, t *model.Traspaso) error {
	return tx.Create(t).Error
}

func (r *stockRepo) DB() *gorm.DB { return r.db }
