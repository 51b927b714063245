package service

import (
	"context"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CorteService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCorteRequest) (*dto.CorteResponse, error)
	// Activa returns the user's open session with live recomputed totals.
	Activa(ctx context.Context, usuarioID uuid.UUID) (*dto.CorteResponse, error)
	Cerrar(ctx context.Context, id uuid.UUID, montoContado decimal.Decimal) (*dto.CorteResponse, error)
	Historial(ctx context.Context, sucursalID uuid.UUID, limit int) ([]dto.CorteResponse, error)
}

type corteService struct {
	repo      repository.CorteRepository
	ventaRepo repository.VentaRepository
	gastoRepo repository.GastoRepository
}

func NewCorteService(repo repository.CorteRepository, ventaRepo repository.VentaRepository, gastoRepo repository.GastoRepository) CorteService {
	return &corteService{repo: repo, ventaRepo: ventaRepo, gastoRepo: gastoRepo}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// One open session per user. The service guard covers the common path; the
// partial unique index on (usuario_id) WHERE closed_at IS NULL makes the rule
// hold under concurrent open attempts.

func (s *corteService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCorteRequest) (*dto.CorteResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "sucursal_id inválido")
	}
	if req.MontoInicial.IsNegative() {
		return nil, apierror.New(apierror.CodeMontoInvalido, "el fondo inicial no puede ser negativo")
	}

	if existente, err := s.repo.FindAbiertoByUsuario(ctx, usuarioID); err == nil && existente != nil {
		return nil, apierror.New(apierror.CodeCajaYaAbierta, "el usuario ya tiene una caja abierta")
	}

	corte := &model.CorteCaja{
		SucursalID:   sucursalID,
		UsuarioID:    usuarioID,
		MontoInicial: req.MontoInicial,
		OpenedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, corte); err != nil {
		// The partial unique index turns a concurrent double-open into a
		// constraint violation here.
		return nil, apierror.New(apierror.CodeCajaYaAbierta, "el usuario ya tiene una caja abierta")
	}

	return s.buildResponse(ctx, corte)
}

// ── Activa ────────────────────────────────────────────────────────────────────

func (s *corteService) Activa(ctx context.Context, usuarioID uuid.UUID) (*dto.CorteResponse, error) {
	corte, err := s.repo.FindAbiertoByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "no hay caja abierta para el usuario")
	}
	return s.buildResponse(ctx, corte)
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Totals are recomputed server-side one final time: a stale client-side total
// must never become the session's audit record.

func (s *corteService) Cerrar(ctx context.Context, id uuid.UUID, montoContado decimal.Decimal) (*dto.CorteResponse, error) {
	corte, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "corte de caja no encontrado")
	}
	if !corte.Abierto() {
		return nil, apierror.New(apierror.CodeCajaYaCerrada, "el corte de caja ya está cerrado")
	}
	if montoContado.IsNegative() {
		return nil, apierror.New(apierror.CodeMontoInvalido, "el monto contado no puede ser negativo")
	}

	ahora := time.Now()
	ventas, gastos, err := s.totales(ctx, corte, &ahora)
	if err != nil {
		return nil, err
	}

	corte.TotalVentas = ventas
	corte.TotalGastos = gastos
	corte.ClosedAt = &ahora
	corte.MontoContado = &montoContado
	diferencia := montoContado.Sub(corte.MontoEsperado())
	corte.Diferencia = &diferencia

	if err := s.repo.Update(ctx, corte); err != nil {
		return nil, err
	}
	return corteToResponse(corte), nil
}

func (s *corteService) Historial(ctx context.Context, sucursalID uuid.UUID, limit int) ([]dto.CorteResponse, error) {
	cortes, err := s.repo.Historial(ctx, sucursalID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CorteResponse, 0, len(cortes))
	for i := range cortes {
		out = append(out, *corteToResponse(&cortes[i]))
	}
	return out, nil
}

// totales recomputes sales and expense sums for the session window from the
// source records — the session row itself is never trusted while open.
func (s *corteService) totales(ctx context.Context, corte *model.CorteCaja, hasta *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	ventas, err := s.ventaRepo.SumTotal(ctx, corte.UsuarioID, corte.SucursalID, corte.OpenedAt, hasta)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	gastos, err := s.gastoRepo.Sum(ctx, corte.UsuarioID, corte.SucursalID, corte.OpenedAt, hasta)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return ventas, gastos, nil
}

func (s *corteService) buildResponse(ctx context.Context, corte *model.CorteCaja) (*dto.CorteResponse, error) {
	ventas, gastos, err := s.totales(ctx, corte, corte.ClosedAt)
	if err != nil {
		return nil, err
	}
	corte.TotalVentas = ventas
	corte.TotalGastos = gastos
	return corteToResponse(corte), nil
}

func corteToResponse(c *model.CorteCaja) *dto.CorteResponse {
	estado := "abierto"
	if !c.Abierto() {
		estado = "cerrado"
	}
	resp := &dto.CorteResponse{
		ID:            c.ID.String(),
		SucursalID:    c.SucursalID.String(),
		UsuarioID:     c.UsuarioID.String(),
		MontoInicial:  c.MontoInicial,
		TotalVentas:   c.TotalVentas,
		TotalGastos:   c.TotalGastos,
		MontoEsperado: c.MontoEsperado(),
		MontoContado:  c.MontoContado,
		Diferencia:    c.Diferencia,
		Estado:        estado,
		OpenedAt:      c.OpenedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.ClosedAt != nil {
		t := c.ClosedAt.Format("2006-01-02T15:04:05Z")
		resp.ClosedAt = &t
	}
	return resp
}
