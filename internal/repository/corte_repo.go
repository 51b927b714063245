package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CorteRepository interface {
	Create(ctx context.Context, c *model.CorteCaja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CorteCaja, error)
	// FindAbiertoByUsuario returns the user's open session (closed_at IS NULL).
	FindAbiertoByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.CorteCaja, error)
	Update(ctx context.Context, c *model.CorteCaja) error
	Historial(ctx context.Context, sucursalID uuid.UUID, limit int) ([]model.CorteCaja, error)
}

type corteRepo struct{ db *gorm.DB }

func NewCorteRepository(db *gorm.DB) CorteRepository { return &corteRepo{db: db} }

func (r *corteRepo) Create(ctx context.Context, c *model.CorteCaja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *corteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CorteCaja, error) {
	var c model.CorteCaja
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *corteRepo) FindAbiertoByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.CorteCaja, error) {
	var c model.CorteCaja
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND closed_at IS NULL", usuarioID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *corteRepo) Update(ctx context.Context, c *model.CorteCaja) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *corteRepo) Historial(ctx context.Context, sucursalID uuid.UUID, limit int) ([]model.CorteCaja, error) {
	if limit <= 0 {
		limit = 50
	}
	var cortes []model.CorteCaja
	q := r.db.WithContext(ctx).Order("opened_at DESC").Limit(limit)
	if sucursalID != uuid.Nil {
		q = q.Where("sucursal_id = ?", sucursalID)
	}
	err := q.Find(&cortes).Error
	return cortes, err
}
