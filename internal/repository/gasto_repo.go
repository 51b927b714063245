package repository

import (
	"context"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	List(ctx context.Context, filter dto.GastoFilter) ([]model.Gasto, int64, error)
	// Sum aggregates expenses for a (usuario, sucursal) within [desde, hasta];
	// nil hasta means "now".
	Sum(ctx context.Context, usuarioID, sucursalID uuid.UUID, desde time.Time, hasta *time.Time) (decimal.Decimal, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) List(ctx context.Context, filter dto.GastoFilter) ([]model.Gasto, int64, error) {
	var gastos []model.Gasto
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Gasto{})
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&gastos).Error
	return gastos, total, err
}

func (r *gastoRepo) Sum(ctx context.Context, usuarioID, sucursalID uuid.UUID, desde time.Time, hasta *time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Gasto{}).
		Where("usuario_id = ? AND sucursal_id = ? AND created_at >= ?", usuarioID, sucursalID, desde)
	if hasta != nil {
		q = q.Where("created_at <= ?", *hasta)
	}

	var total decimal.NullDecimal
	if err := q.Select("COALESCE(SUM(monto), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
