package service

import (
	"context"
	"encoding/json"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// precioCacheTTL bounds staleness of the price lookup cache. Writes invalidate
// the key, so the TTL only matters for out-of-band DB edits.
const precioCacheTTL = 5 * time.Minute

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error)
	Retirar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if !req.PrecioVenta.IsPositive() || req.PrecioCosto.IsNegative() {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "precios inválidos")
	}
	p := &model.Producto{
		Tipo:        model.TipoProducto(req.Tipo),
		Nombre:      req.Nombre,
		PrecioVenta: req.PrecioVenta,
		PrecioCosto: req.PrecioCosto,
		IVAPct:      req.IVAPct,
		Estado:      model.ProductoActivo,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

// Obtener serves the price lookup path, cached in redis. Cache misses and
// redis failures both fall through to the DB — the cache is never load-bearing.
func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	cacheKey := "producto:" + id.String()
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductoResponse
			if json.Unmarshal([]byte(raw), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "producto no encontrado")
	}
	resp := productoToResponse(p)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("producto_id", id.String()).Msg("producto cache set failed")
			}
		}
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, *productoToResponse(&productos[i]))
	}
	return out, total, nil
}

func (s *productoService) Retirar(ctx context.Context, id uuid.UUID) error {
	return s.cambiarEstado(ctx, id, model.ProductoRetirado)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.cambiarEstado(ctx, id, model.ProductoActivo)
}

func (s *productoService) cambiarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoProducto) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.New(apierror.CodeNoEncontrado, "producto no encontrado")
	}
	if err := s.repo.CambiarEstado(ctx, id, estado); err != nil {
		return err
	}
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, "producto:"+id.String()).Err()
	}
	return nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Tipo:        string(p.Tipo),
		Nombre:      p.Nombre,
		PrecioVenta: p.PrecioVenta,
		PrecioCosto: p.PrecioCosto,
		IVAPct:      p.IVAPct,
		Estado:      string(p.Estado),
	}
}
