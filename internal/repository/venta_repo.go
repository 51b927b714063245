package repository

import (
	"context"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDTx re-reads the sale inside tx under a row lock. Concurrent
	// cancellations of the same sale serialize here; the loser re-reads after
	// commit and sees the row gone.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	// DeleteTx removes the sale and its items (cascade) inside tx. The caller
	// restores stock in the SAME transaction — never independently. Deleting
	// an already-deleted sale is an error, not a no-op.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// SumTotal aggregates completed sale totals for a (usuario, sucursal)
	// within [desde, hasta]; nil hasta means "now".
	SumTotal(ctx context.Context, usuarioID, sucursalID uuid.UUID, desde time.Time, hasta *time.Time) (decimal.Decimal, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Items").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("venta_id = ?", id).Delete(&model.VentaItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Venta{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) SumTotal(ctx context.Context, usuarioID, sucursalID uuid.UUID, desde time.Time, hasta *time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("usuario_id = ? AND sucursal_id = ? AND estado = ? AND created_at >= ?",
			usuarioID, sucursalID, model.VentaCompletada, desde)
	if hasta != nil {
		q = q.Where("created_at <= ?", *hasta)
	}

	var total decimal.NullDecimal
	if err := q.Select("COALESCE(SUM(total), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
