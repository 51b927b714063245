package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApartadoRepository interface {
	CreateTx(tx *gorm.DB, a *model.Apartado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Apartado, error)
	// FindByIDTx re-reads the layaway inside tx under a row lock, so
	// concurrent payments and finalizations on the same record serialize.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Apartado, error)
	// UpdateMontosTx persists pagado/pendiente/estado inside tx. Only an
	// ACTIVO row may be updated; anything else aborts the transaction.
	UpdateMontosTx(tx *gorm.DB, a *model.Apartado) error
	CreateAbonoTx(tx *gorm.DB, ab *model.ApartadoAbono) error
	ListActivos(ctx context.Context, sucursalID uuid.UUID) ([]model.Apartado, error)
	DB() *gorm.DB
}

type apartadoRepo struct{ db *gorm.DB }

func NewApartadoRepository(db *gorm.DB) ApartadoRepository { return &apartadoRepo{db: db} }

func (r *apartadoRepo) DB() *gorm.DB { return r.db }

func (r *apartadoRepo) CreateTx(tx *gorm.DB, a *model.Apartado) error {
	return tx.Create(a).Error
}

func (r *apartadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Apartado, error) {
	var a model.Apartado
	err := r.db.WithContext(ctx).Preload("Items").Preload("Abonos").First(&a, id).Error
	return &a, err
}

func (r *apartadoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Apartado, error) {
	var a model.Apartado
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Preload("Abonos").First(&a, id).Error
	return &a, err
}

func (r *apartadoRepo) UpdateMontosTx(tx *gorm.DB, a *model.Apartado) error {
	res := tx.Model(&model.Apartado{}).
		Where("id = ? AND estado = ?", a.ID, model.ApartadoActivo).
		Updates(map[string]interface{}{
			"monto_pagado":    a.MontoPagado,
			"monto_pendiente": a.MontoPendiente,
			"estado":          a.Estado,
		})
	if res.Error != nil {
		return res.Error
	}
	// The estado guard makes a lost transition abort instead of silently
	// rewriting a finalized record.
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *apartadoRepo) CreateAbonoTx(tx *gorm.DB, ab *model.ApartadoAbono) error {
	return tx.Create(ab).Error
}

func (r *apartadoRepo) ListActivos(ctx context.Context, sucursalID uuid.UUID) ([]model.Apartado, error) {
	var apartados []model.Apartado
	q := r.db.WithContext(ctx).Preload("Items").Where("estado = ?", model.ApartadoActivo)
	if sucursalID != uuid.Nil {
		q = q.Where("sucursal_id = ?", sucursalID)
	}
	err := q.Order("fecha_limite ASC").Find(&apartados).Error
	return apartados, err
}
